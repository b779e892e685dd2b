package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/availability"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
)

// UseCase use case для получения доступных слотов по креслам салона
type UseCase struct {
	schedule     ScheduleService
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(schedule ScheduleService, opts Options, logger Logger) *UseCase {
	if opts.SlotDurationMinutes <= 0 {
		opts.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = domain.DefaultScheduleWindowDays
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &UseCase{
		schedule:     schedule,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.opts.Location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.opts.Location)

	uc.logger.Info("GetAvailableSlots: shop=%s, date=%s", req.ShopID, date.Format(domain.DateFormat))

	// 2. Дата должна попадать в окно расписания
	if err := validateDate(date, now, uc.opts.WindowDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Расписание салона на этот день
	sched, err := uc.schedule.GetShopSchedule(ctx, req.ShopID, date, date.AddDate(0, 0, 1))
	if err != nil {
		if errors.Is(err, schedule.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%s not found", req.ShopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule of shop id=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 4. Кресла, для которых считаем слоты
	chairs := sched.Chairs
	if req.ChairID != nil {
		chair := sched.Chair(*req.ChairID)
		if chair == nil {
			uc.logger.Warn("GetAvailableSlots: chair id=%s not found in shop id=%s", *req.ChairID, req.ShopID)
			return nil, ErrChairNotFound
		}
		chairs = []*domain.Chair{chair}
	}

	resp := &Response{
		Date:            date,
		ShopID:          req.ShopID,
		Closed:          availability.IsClosed(date, sched.Shop.BusinessHours),
		DurationMinutes: uc.opts.SlotDurationMinutes,
		Chairs:          make([]domain.ChairSlots, 0, len(chairs)),
	}

	// 5. Калькулятор вызывается отдельно для каждого кресла
	total := 0
	for _, chair := range chairs {
		slots := availability.ComputeAvailableSlots(
			date,
			chair.ID,
			sched.Shop.BusinessHours,
			sched.Booked,
			uc.opts.SlotDurationMinutes,
			now,
		)
		total += len(slots)
		resp.Chairs = append(resp.Chairs, domain.ChairSlots{
			Chair:           chair,
			DurationMinutes: uc.opts.SlotDurationMinutes,
			Slots:           slots,
		})
	}

	uc.logger.Info("GetAvailableSlots: %d slots on %d chairs for shop=%s, date=%s, closed=%t",
		total, len(chairs), req.ShopID, date.Format(domain.DateFormat), resp.Closed)

	return resp, nil
}
