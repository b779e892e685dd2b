package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	scheduleCache "github.com/m04kA/SMC-BarberBooking/internal/infra/cache/schedule"
)

// ShopRepository интерфейс хранилища конфигурации салонов
type ShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	ListActiveChairs(ctx context.Context, shopID uuid.UUID) ([]*domain.Chair, error)
}

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	ListBooked(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]domain.BookedInterval, error)
}

// Cache кэш расписаний (Redis или no-op)
type Cache interface {
	Get(ctx context.Context, key scheduleCache.Key) (*domain.ShopSchedule, int64, error)
	Set(ctx context.Context, key scheduleCache.Key, version int64, sched *domain.ShopSchedule) error
	Invalidate(ctx context.Context, shopID uuid.UUID) error
}

// MetricsRecorder счётчик попаданий в кэш
type MetricsRecorder interface {
	ObserveScheduleCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
