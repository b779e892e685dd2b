package middleware

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// IdentityResolver проверяет bearer токен и возвращает вызывающего
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
