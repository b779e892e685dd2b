package commit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	commitBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/commit_booking"
)

// IdempotencyKeyHeader заголовок с ключом идемпотентности клиента
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	msgInvalidShopID        = "некорректный ID салона"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequest       = "некорректные данные записи"
	msgUnauthorized         = "для записи нужно войти в аккаунт"
	msgShopNotFound         = "салон не найден"
	msgChairNotFound        = "кресло не найдено"
	msgChairInactive        = "кресло недоступно для записи"
	msgOutsideHours         = "выбранное время вне часов работы салона"
	msgSlotInPast           = "выбранное время уже прошло"
	msgIdempotencyKeyReused = "ключ идемпотентности уже использован для другой записи"
	msgSlotConflict         = "выбранное время уже занято"
	msgStorageUnavailable   = "сервис записи временно недоступен, повторите попытку"
	msgOutcomeUnknown       = "не удалось подтвердить запись, повторите запрос с тем же ключом"
)

type Handler struct {
	useCase CommitBookingUseCase
	logger  Logger
}

func NewHandler(useCase CommitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/shops/{shopId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("POST /shops/{id}/appointments - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	var req CommitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	caller := middleware.GetIdentity(r.Context())

	useCaseReq, err := req.ToUseCaseRequest(shopID, caller, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		h.logger.Warn("POST /shops/{id}/appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, commitBooking.ErrSlotConflict):
			h.logger.Warn("POST /shops/{id}/appointments - Slot conflict: shop_id=%s, chair_id=%s", shopID, req.ChairID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, commitBooking.ErrUnauthorized):
			handlers.RespondUnauthorized(w, msgUnauthorized)

		case errors.Is(err, commitBooking.ErrShopNotFound):
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, commitBooking.ErrChairNotFound):
			handlers.RespondNotFound(w, msgChairNotFound)

		case errors.Is(err, commitBooking.ErrChairInactive):
			handlers.RespondBadRequest(w, msgChairInactive)

		case errors.Is(err, commitBooking.ErrOutsideBusinessHours):
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, commitBooking.ErrSlotInPast):
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, commitBooking.ErrIdempotencyKeyReused):
			handlers.RespondBadRequest(w, msgIdempotencyKeyReused)

		case errors.Is(err, commitBooking.ErrInvalidRequest):
			h.logger.Warn("POST /shops/{id}/appointments - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, commitBooking.ErrStorageUnavailable):
			h.logger.Error("POST /shops/{id}/appointments - Storage unavailable: shop_id=%s, error=%v", shopID, err)
			w.Header().Set("Retry-After", "1")
			handlers.RespondServiceUnavailable(w, msgStorageUnavailable)

		case errors.Is(err, commitBooking.ErrOutcomeUnknown):
			h.logger.Error("POST /shops/{id}/appointments - Outcome unknown: shop_id=%s, error=%v", shopID, err)
			handlers.RespondGatewayTimeout(w, msgOutcomeUnknown)

		default:
			h.logger.Error("POST /shops/{id}/appointments - Failed to commit booking: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /shops/{id}/appointments - Appointment committed: appointment_id=%s, shop_id=%s, replayed=%t",
		result.Appointment.ID, shopID, result.Replayed)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
