package get_shop_schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

type ScheduleService interface {
	GetShopSchedule(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*domain.ShopSchedule, error)
	WindowDays() int
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
