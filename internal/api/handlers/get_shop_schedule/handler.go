package get_shop_schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
)

const (
	msgInvalidShopID = "некорректный ID салона"
	msgInvalidParams = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgInvalidRange  = "период должен быть непустым и не шире окна записи"
	msgShopNotFound  = "салон не найден"
)

type Handler struct {
	service  ScheduleService
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/schedule
// Query params: from, to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := handlers.PathUUID(r, "shopId")
	if err != nil {
		h.logger.Warn("GET /shops/{id}/schedule - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	query := r.URL.Query()
	from, to, err := parseRange(query.Get("from"), query.Get("to"), h.now(), h.service.WindowDays(), h.location)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/schedule - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetShopSchedule(r.Context(), shopID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/schedule - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, schedule.ErrInvalidRange):
			h.logger.Warn("GET /shops/{id}/schedule - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /shops/{id}/schedule - Failed to get schedule: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/schedule - Schedule retrieved: shop_id=%s, chairs=%d, booked=%d",
		shopID, len(result.Chairs), len(result.Booked))
	handlers.RespondJSON(w, http.StatusOK, FromDomainSchedule(result))
}
