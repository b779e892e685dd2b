package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Options параметры расчёта слотов из конфигурации
type Options struct {
	SlotDurationMinutes int
	WindowDays          int
	Location            *time.Location
}

// Request модель запроса на получение доступных слотов
type Request struct {
	ShopID  uuid.UUID
	Date    time.Time  // Дата (время отбрасывается, день берётся в часовом поясе салона)
	ChairID *uuid.UUID // Только одно кресло (опционально)
}

// Response модель ответа со слотами по креслам
type Response struct {
	Date            time.Time
	ShopID          uuid.UUID
	Closed          bool // Салон не работает в этот день (в отличие от полностью занятого дня)
	DurationMinutes int
	Chairs          []domain.ChairSlots
}
