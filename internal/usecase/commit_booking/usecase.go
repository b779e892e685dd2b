package commit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
)

// Исходы для метрики booking_commits_total
const (
	resultCreated      = "created"
	resultReplayed     = "replayed"
	resultConflict     = "conflict"
	resultInvalid      = "invalid"
	resultUnauthorized = "unauthorized"
	resultNotFound     = "not_found"
	resultUnavailable  = "unavailable"
	resultUnknown      = "unknown"
)

// Options параметры записи из конфигурации
type Options struct {
	RequireRegisteredCustomer bool
	CommitTimeout             time.Duration
	Location                  *time.Location
}

// UseCase use case фиксации записи на кресло
type UseCase struct {
	shopRepo        ShopRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	schedule        ScheduleInvalidator
	metrics         MetricsRecorder
	opts            Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil.
func NewUseCase(
	shopRepo ShopRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	schedule ScheduleInvalidator,
	metrics MetricsRecorder,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &UseCase{
		shopRepo:        shopRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		schedule:        schedule,
		metrics:         metrics,
		opts:            opts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case фиксации записи.
// Доступность слота проверяется заново по живым данным, список слотов клиента не учитывается.
// Пересечение с живой записью отсекается в сериализуемой транзакции и exclusion constraint в БД.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.observe(resp, err)
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	normalizeRequest(req)

	uc.logger.Info("CommitBooking: shop=%s, chair=%s, user=%s, start=%s, end=%s",
		req.ShopID, req.ChairID, req.Caller.UserID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CommitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверка личности клиента
	if uc.opts.RequireRegisteredCustomer && req.Caller.IsAnonymous() {
		uc.logger.Warn("CommitBooking: anonymous caller rejected for shop=%s", req.ShopID)
		return nil, ErrUnauthorized
	}

	if uc.opts.CommitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.opts.CommitTimeout)
		defer cancel()
	}

	now := uc.timeProvider.Now()

	// 3. Салон и кресло
	shop, err := uc.shopRepo.GetByID(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			uc.logger.Warn("CommitBooking: shop id=%s not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		return nil, uc.storageError(ctx, "shopRepo.GetByID", err, false)
	}

	chair, err := uc.shopRepo.GetChair(ctx, req.ShopID, req.ChairID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrChairNotFound) {
			uc.logger.Warn("CommitBooking: chair id=%s not found in shop=%s", req.ChairID, req.ShopID)
			return nil, ErrChairNotFound
		}
		return nil, uc.storageError(ctx, "shopRepo.GetChair", err, false)
	}
	if !chair.IsActive {
		uc.logger.Warn("CommitBooking: chair id=%s is inactive", req.ChairID)
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, ErrChairInactive)
	}

	// 4. Повтор запроса с тем же ключом возвращает ранее созданную запись
	if req.IdempotencyKey != nil {
		existing, err := uc.appointmentRepo.GetByIdempotencyKey(ctx, req.ShopID, *req.IdempotencyKey)
		switch {
		case err == nil:
			return uc.replay(existing, req)
		case !errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, uc.storageError(ctx, "appointmentRepo.GetByIdempotencyKey", err, false)
		}
	}

	// 5. Проверка слота по часам работы и текущему времени
	if err := validateBusinessHours(shop.BusinessHours, req.StartTime, req.EndTime, uc.opts.Location); err != nil {
		uc.logger.Warn("CommitBooking: business hours check failed: %v", err)
		return nil, err
	}
	if err := validateNotPast(req.StartTime, now); err != nil {
		uc.logger.Warn("CommitBooking: slot %s is in the past", req.StartTime.Format(time.RFC3339))
		return nil, err
	}

	// 6. Фиксация в сериализуемой транзакции
	var created *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Предварительная проверка пересечений с блокировкой (FOR UPDATE)
		overlapping, err := uc.appointmentRepo.FindOverlapping(txCtx, req.ChairID, req.StartTime, req.EndTime)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CommitBooking: chair=%s already booked by appointment id=%s", req.ChairID, overlapping[0].ID)
			return ErrSlotConflict
		}

		// 6.2. Вставка. Гонку, проскочившую мимо проверки, отсекает exclusion constraint
		appt, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ShopID:         req.ShopID,
			ChairID:        req.ChairID,
			CustomerID:     req.Caller.UserIDPtr(),
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Status:         domain.StatusBooked,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			return err
		}

		created = appt
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict), errors.Is(err, appointmentRepo.ErrSlotConflict):
			uc.logger.Warn("CommitBooking: slot conflict on chair=%s", req.ChairID)
			return nil, ErrSlotConflict
		case errors.Is(err, appointmentRepo.ErrDuplicateIdempotencyKey):
			// Параллельный запрос с тем же ключом успел раньше. Транзакция откатилась, читаем вне её.
			existing, getErr := uc.appointmentRepo.GetByIdempotencyKey(ctx, req.ShopID, *req.IdempotencyKey)
			if getErr != nil {
				return nil, uc.storageError(ctx, "appointmentRepo.GetByIdempotencyKey", getErr, true)
			}
			return uc.replay(existing, req)
		default:
			return nil, uc.storageError(ctx, "DoSerializable", err, true)
		}
	}

	// 7. Сбрасываем кэш расписания салона
	uc.schedule.Invalidate(ctx, req.ShopID)

	uc.logger.Info("CommitBooking: successfully created appointment id=%s", created.ID)

	return &Response{Appointment: created}, nil
}

// replay возвращает ранее созданную запись, если ключ использован для того же запроса
func (uc *UseCase) replay(existing *domain.Appointment, req *Request) (*Response, error) {
	if !sameBooking(existing, req) {
		uc.logger.Warn("CommitBooking: idempotency key reused for a different booking, existing id=%s", existing.ID)
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, ErrIdempotencyKeyReused)
	}
	uc.logger.Info("CommitBooking: replayed appointment id=%s", existing.ID)
	return &Response{Appointment: existing, Replayed: true}, nil
}

// storageError различает истёкший таймаут фиксации и недоступность хранилища.
// До начала транзакции ничего не записано, поэтому таймаут там - обычная недоступность.
func (uc *UseCase) storageError(ctx context.Context, op string, err error, committing bool) error {
	timedOut := ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded)
	if committing && timedOut {
		uc.logger.Error("CommitBooking: %s timed out, outcome unknown: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrOutcomeUnknown, op, err)
	}
	uc.logger.Error("CommitBooking: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}

func (uc *UseCase) observe(resp *Response, err error) {
	if uc.metrics == nil {
		return
	}

	result := resultUnavailable
	switch {
	case err == nil && resp.Replayed:
		result = resultReplayed
	case err == nil:
		result = resultCreated
	case errors.Is(err, ErrSlotConflict):
		result = resultConflict
	case errors.Is(err, ErrInvalidRequest):
		result = resultInvalid
	case errors.Is(err, ErrUnauthorized):
		result = resultUnauthorized
	case errors.Is(err, ErrShopNotFound), errors.Is(err, ErrChairNotFound):
		result = resultNotFound
	case errors.Is(err, ErrOutcomeUnknown):
		result = resultUnknown
	}

	uc.metrics.ObserveBookingCommit(result)
}
