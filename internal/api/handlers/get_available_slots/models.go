package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	getAvailableSlots "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
)

const dateLayout = "2006-01-02"

// ChairSlotsResponse слоты одного кресла
type ChairSlotsResponse struct {
	ChairID string   `json:"chairId"`
	Name    string   `json:"name"`
	Slots   []string `json:"slots"` // HH:MM, начало слота
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string               `json:"date"`
	ShopID          string               `json:"shopId"`
	Closed          bool                 `json:"closed"`
	DurationMinutes int                  `json:"durationMinutes"`
	Chairs          []ChairSlotsResponse `json:"chairs"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case.
// Дата разбирается в часовом поясе салонов.
func ToUseCaseRequest(shopID uuid.UUID, dateStr, chairIDStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(dateLayout, dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	req := &getAvailableSlots.Request{
		ShopID: shopID,
		Date:   date,
	}

	if chairIDStr != "" {
		chairID, err := uuid.Parse(chairIDStr)
		if err != nil {
			return nil, fmt.Errorf("chairId: %w", err)
		}
		req.ChairID = &chairID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	chairs := make([]ChairSlotsResponse, 0, len(resp.Chairs))
	for _, c := range resp.Chairs {
		slots := make([]string, 0, len(c.Slots))
		for _, s := range c.Slots {
			slots = append(slots, s.String())
		}
		chairs = append(chairs, ChairSlotsResponse{
			ChairID: c.Chair.ID.String(),
			Name:    c.Chair.Name,
			Slots:   slots,
		})
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(dateLayout),
		ShopID:          resp.ShopID.String(),
		Closed:          resp.Closed,
		DurationMinutes: resp.DurationMinutes,
		Chairs:          chairs,
	}
}
