package commit_booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
	commitBooking "github.com/m04kA/SMC-BarberBooking/internal/usecase/commit_booking"
)

// CommitBookingRequest HTTP request model
type CommitBookingRequest struct {
	ChairID       string `json:"chairId" validate:"required,uuid"`
	CustomerName  string `json:"customerName" validate:"required,max=100"`
	CustomerPhone string `json:"customerPhone" validate:"required,max=32"`
	Start         string `json:"start" validate:"required"` // RFC3339
	End           string `json:"end" validate:"required"`   // RFC3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CommitBookingRequest) ToUseCaseRequest(shopID uuid.UUID, caller domain.Identity, idempotencyKey string) (*commitBooking.Request, error) {
	chairID, err := uuid.Parse(r.ChairID)
	if err != nil {
		return nil, fmt.Errorf("chairId: %w", err)
	}

	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	req := &commitBooking.Request{
		ShopID:        shopID,
		ChairID:       chairID,
		Caller:        caller,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		StartTime:     start,
		EndTime:       end,
	}
	if idempotencyKey != "" {
		req.IdempotencyKey = &idempotencyKey
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commitBooking.Response) *models.AppointmentResponse {
	return models.FromDomainAppointment(resp.Appointment)
}
