package commit_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ShopRepository интерфейс хранилища конфигурации салонов
type ShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
	GetChair(ctx context.Context, shopID, chairID uuid.UUID) (*domain.Chair, error)
}

// AppointmentRepository интерфейс журнала записей
type AppointmentRepository interface {
	// FindOverlapping возвращает живые записи кресла, пересекающиеся с [start, end).
	// Внутри транзакции строки блокируются (FOR UPDATE).
	FindOverlapping(ctx context.Context, chairID uuid.UUID, start, end time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByIdempotencyKey(ctx context.Context, shopID uuid.UUID, key string) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ScheduleInvalidator сбрасывает кэш расписания салона
type ScheduleInvalidator interface {
	Invalidate(ctx context.Context, shopID uuid.UUID)
}

// MetricsRecorder счётчик исходов записи
type MetricsRecorder interface {
	ObserveBookingCommit(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
