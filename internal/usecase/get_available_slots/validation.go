package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID == uuid.Nil {
		return fmt.Errorf("%w: shopId is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ChairID != nil && *req.ChairID == uuid.Nil {
		return fmt.Errorf("%w: chairId must not be empty", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно [сегодня, сегодня + windowDays)
func validateDate(date, now time.Time, windowDays int) error {
	today := startOfDay(now)

	if date.Before(today) {
		return ErrInvalidDate
	}

	if !date.Before(today.AddDate(0, 0, windowDays)) {
		return fmt.Errorf("%w: slots are available %d days ahead", ErrDateTooFarInFuture, windowDays)
	}

	return nil
}

// startOfDay обнуляет время, сохраняя часовой пояс
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
