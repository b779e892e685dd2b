package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	scheduleCache "github.com/m04kA/SMC-BarberBooking/internal/infra/cache/schedule"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Service сервис чтения расписания салона
type Service struct {
	shopRepo        ShopRepository
	appointmentRepo AppointmentRepository
	cache           Cache
	metrics         MetricsRecorder
	windowDays      int
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания.
// metrics может быть nil.
func NewService(
	shopRepo ShopRepository,
	appointmentRepo AppointmentRepository,
	cache Cache,
	metrics MetricsRecorder,
	windowDays int,
	logger Logger,
) *Service {
	if windowDays <= 0 {
		windowDays = domain.DefaultScheduleWindowDays
	}
	return &Service{
		shopRepo:        shopRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		metrics:         metrics,
		windowDays:      windowDays,
		logger:          logger,
	}
}

// WindowDays максимальная ширина окна расписания в днях
func (s *Service) WindowDays() int {
	return s.windowDays
}

// GetShopSchedule возвращает часы работы, активные кресла и занятые интервалы салона в [from, to)
func (s *Service) GetShopSchedule(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*domain.ShopSchedule, error) {
	if shopID == uuid.Nil {
		return nil, fmt.Errorf("%w: shop id is required", ErrInvalidRange)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from %s must be before to %s", ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	// Окно в календарных днях, не в часах
	if to.After(from.AddDate(0, 0, s.windowDays)) {
		return nil, fmt.Errorf("%w: window is limited to %d days", ErrInvalidRange, s.windowDays)
	}

	key := scheduleCache.Key{ShopID: shopID, From: from, To: to}

	cached, version, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.observe(cacheHit)
		return cached, nil
	case errors.Is(err, scheduleCache.ErrMiss):
		s.observe(cacheMiss)
	default:
		// Кэш недоступен - читаем из БД и не пишем обратно
		s.observe(cacheError)
		s.logger.Warn("GetShopSchedule: cache unavailable for shop=%s: %v", shopID, err)
	}

	sched, loadErr := s.load(ctx, shopID, from, to)
	if loadErr != nil {
		return nil, loadErr
	}

	if err == nil || errors.Is(err, scheduleCache.ErrMiss) {
		if setErr := s.cache.Set(ctx, key, version, sched); setErr != nil {
			s.logger.Warn("GetShopSchedule: failed to cache schedule for shop=%s: %v", shopID, setErr)
		}
	}

	return sched, nil
}

// Invalidate сбрасывает закэшированные расписания салона. Ошибки только логируются.
func (s *Service) Invalidate(ctx context.Context, shopID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, shopID); err != nil {
		s.logger.Warn("Invalidate: failed to invalidate schedule cache for shop=%s: %v", shopID, err)
	}
}

func (s *Service) load(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*domain.ShopSchedule, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			return nil, ErrShopNotFound
		}
		s.logger.Error("GetShopSchedule: failed to get shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetShopSchedule - shopRepo.GetByID: %v", ErrInternal, err)
	}

	chairs, err := s.shopRepo.ListActiveChairs(ctx, shopID)
	if err != nil {
		s.logger.Error("GetShopSchedule: failed to list chairs of shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetShopSchedule - shopRepo.ListActiveChairs: %v", ErrInternal, err)
	}

	booked, err := s.appointmentRepo.ListBooked(ctx, shopID, from, to)
	if err != nil {
		s.logger.Error("GetShopSchedule: failed to list booked intervals of shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetShopSchedule - appointmentRepo.ListBooked: %v", ErrInternal, err)
	}

	s.logger.Info("GetShopSchedule: shop=%s, chairs=%d, booked=%d", shopID, len(chairs), len(booked))

	return &domain.ShopSchedule{
		Shop:   shop,
		Chairs: chairs,
		Booked: booked,
		From:   from,
		To:     to,
	}, nil
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveScheduleCache(result)
	}
}
