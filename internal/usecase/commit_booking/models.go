package commit_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Request модель запроса на запись
type Request struct {
	ShopID         uuid.UUID
	ChairID        uuid.UUID
	Caller         domain.Identity // Анонимный клиент допустим, если салон не требует регистрации
	CustomerName   string
	CustomerPhone  string
	StartTime      time.Time
	EndTime        time.Time
	IdempotencyKey *string // Ключ идемпотентности клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Replayed    bool // true - запись была создана ранее запросом с тем же ключом
}
