package get_shop_appointments

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос к сервису из query параметров.
// from и to в формате RFC3339, фильтр по времени начала записи.
func ToServiceRequest(shopID uuid.UUID, caller domain.Identity, query url.Values) (*models.GetShopAppointmentsRequest, error) {
	req := &models.GetShopAppointmentsRequest{
		Caller: caller,
		ShopID: shopID,
	}

	if s := query.Get("chairId"); s != "" {
		chairID, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("chairId: %w", err)
		}
		req.ChairID = &chairID
	}

	if s := query.Get("from"); s != "" {
		from, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		req.From = &from
	}

	if s := query.Get("to"); s != "" {
		to, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		req.To = &to
	}

	if s := query.Get("status"); s != "" {
		req.Status = &s
	}

	return req, nil
}
