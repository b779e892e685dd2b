package commit_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// normalizeRequest обрезает пробелы в текстовых полях
func normalizeRequest(req *Request) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if req.IdempotencyKey != nil {
		key := strings.TrimSpace(*req.IdempotencyKey)
		if key == "" {
			req.IdempotencyKey = nil
		} else {
			req.IdempotencyKey = &key
		}
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID == uuid.Nil {
		return fmt.Errorf("%w: shopId is required", ErrInvalidRequest)
	}

	if req.ChairID == uuid.Nil {
		return fmt.Errorf("%w: chairId is required", ErrInvalidRequest)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name is longer than %d characters", ErrInvalidRequest, domain.MaxCustomerNameLength)
	}

	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customer phone is longer than %d characters", ErrInvalidRequest, domain.MaxCustomerPhoneLength)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidRequest)
	}
	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: end is required", ErrInvalidRequest)
	}
	if !req.StartTime.Before(req.EndTime) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidRequest)
	}

	if req.IdempotencyKey != nil && len(*req.IdempotencyKey) > domain.MaxIdempotencyKeyLength {
		return fmt.Errorf("%w: idempotency key is longer than %d bytes", ErrInvalidRequest, domain.MaxIdempotencyKeyLength)
	}

	return nil
}

// validateBusinessHours проверяет, что [start, end) целиком лежит в часах работы одного дня.
// Время интерпретируется как локальное время салона.
func validateBusinessHours(hours domain.BusinessHours, start, end time.Time, loc *time.Location) error {
	localStart := start.In(loc)
	localEnd := end.In(loc)

	day, open := hours.ForDate(localStart)
	if !open {
		return fmt.Errorf("%w: %w: shop is closed on %s", ErrInvalidRequest, ErrOutsideBusinessHours, localStart.Format(domain.DateFormat))
	}

	if !isSameDay(localStart, localEnd) {
		return fmt.Errorf("%w: %w: appointment must end on the day it starts", ErrInvalidRequest, ErrOutsideBusinessHours)
	}

	// Проверяем по минутам от начала суток, секунды не допускаются
	if localStart.Second() != 0 || localEnd.Second() != 0 || localStart.Nanosecond() != 0 || localEnd.Nanosecond() != 0 {
		return fmt.Errorf("%w: start and end must be whole minutes", ErrInvalidRequest)
	}

	if !day.Contains(types.NewTimeString(localStart), types.NewTimeString(localEnd)) {
		return fmt.Errorf("%w: %w: %s-%s is outside %s-%s",
			ErrInvalidRequest, ErrOutsideBusinessHours,
			localStart.Format(domain.TimeFormat), localEnd.Format(domain.TimeFormat), day.Open, day.Close)
	}

	return nil
}

// validateNotPast проверяет, что слот ещё не начался
func validateNotPast(start, now time.Time) error {
	if !start.After(now) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrSlotInPast)
	}
	return nil
}

// sameBooking проверяет, что существующая запись описывает тот же самый запрос
func sameBooking(existing *domain.Appointment, req *Request) bool {
	if existing.ChairID != req.ChairID {
		return false
	}
	if !existing.StartTime.Equal(req.StartTime) || !existing.EndTime.Equal(req.EndTime) {
		return false
	}
	if req.Caller.IsAnonymous() {
		return existing.CustomerID == nil
	}
	return existing.IsBookedBy(req.Caller.UserID)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
