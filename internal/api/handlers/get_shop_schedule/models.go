package get_shop_schedule

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

const dateLayout = "2006-01-02"

// ChairResponse активное кресло салона
type ChairResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookedIntervalResponse занятый интервал [start, end) кресла
type BookedIntervalResponse struct {
	ChairID string `json:"chairId"`
	Start   string `json:"start"` // RFC3339
	End     string `json:"end"`   // RFC3339
}

// ShopScheduleResponse HTTP response model
type ShopScheduleResponse struct {
	ShopID          string                   `json:"shopId"`
	Name            string                   `json:"name"`
	BusinessHours   domain.BusinessHours     `json:"businessHours"`
	Chairs          []ChairResponse          `json:"chairs"`
	BookedIntervals []BookedIntervalResponse `json:"bookedIntervals"`
	From            string                   `json:"from"`
	To              string                   `json:"to"`
}

// parseRange разбирает границы окна from/to (YYYY-MM-DD).
// Пустой from - сегодня, пустой to - from плюс окно расписания.
func parseRange(fromStr, toStr string, now time.Time, windowDays int, loc *time.Location) (time.Time, time.Time, error) {
	from := startOfDay(now.In(loc))
	if fromStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, fromStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, windowDays)
	if toStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, toStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
		}
		to = parsed
	}

	return from, to, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FromDomainSchedule конвертирует расписание салона в HTTP response
func FromDomainSchedule(s *domain.ShopSchedule) *ShopScheduleResponse {
	chairs := make([]ChairResponse, 0, len(s.Chairs))
	for _, c := range s.Chairs {
		chairs = append(chairs, ChairResponse{ID: c.ID.String(), Name: c.Name})
	}

	booked := make([]BookedIntervalResponse, 0, len(s.Booked))
	for _, b := range s.Booked {
		booked = append(booked, BookedIntervalResponse{
			ChairID: b.ChairID.String(),
			Start:   b.Start.Format(time.RFC3339),
			End:     b.End.Format(time.RFC3339),
		})
	}

	return &ShopScheduleResponse{
		ShopID:          s.Shop.ID.String(),
		Name:            s.Shop.Name,
		BusinessHours:   s.Shop.BusinessHours,
		Chairs:          chairs,
		BookedIntervals: booked,
		From:            s.From.Format(time.RFC3339),
		To:              s.To.Format(time.RFC3339),
	}
}
