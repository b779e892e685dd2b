// Package availability computes bookable slots of a chair on a date.
//
// Everything here is pure: no clock reads, no I/O, inputs are never mutated,
// so results can be computed on any goroutine and memoized freely.
package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// ComputeAvailableSlots returns the ordered start times of the free slots of chairID on date.
//
// The grid starts at the day's open time and advances by durationMinutes of wall-clock time
// while the whole slot still ends at or before close; a trailing partial slot is dropped.
// On a daylight-saving change the labels stay on the business-hours grid; a label that does
// not exist on that day (the skipped spring hour) is not offered. A slot is skipped
// when it starts at or before now, or when it overlaps a booked interval of the chair.
// Intervals tagged with another chair are ignored, untagged ones block every chair.
//
// A closed or unconfigured weekday, a non-positive duration or an inverted window all
// yield an empty result; the calculator never fails.
func ComputeAvailableSlots(
	date time.Time,
	chairID uuid.UUID,
	hours domain.BusinessHours,
	booked []domain.BookedInterval,
	durationMinutes int,
	now time.Time,
) []types.TimeString {
	slots := make([]types.TimeString, 0)

	day, open := hours.ForDate(date)
	if !open || durationMinutes <= 0 {
		return slots
	}
	if day.Open.Validate() != nil || day.Close.Validate() != nil {
		return slots
	}

	// Сетка строится по настенному времени: в день перевода часов метки не сдвигаются
	closeMinutes := day.Close.Minutes()
	for m := day.Open.Minutes(); m+durationMinutes <= closeMinutes; m += durationMinutes {
		label, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		endLabel, err := types.NewTimeStringFromMinutes(m + durationMinutes)
		if err != nil {
			break
		}

		start, end := label.On(date), endLabel.On(date)

		// Метка попала в пропущенный при переводе вперёд час
		if !end.After(start) {
			continue
		}
		if !start.After(now) {
			continue
		}
		if overlapsAny(chairID, start, end, booked) {
			continue
		}

		slots = append(slots, label)
	}

	return slots
}

// IsClosed tells a closed day apart from a day that is merely fully booked
func IsClosed(date time.Time, hours domain.BusinessHours) bool {
	_, open := hours.ForDate(date)
	return !open
}

// Overlaps is the half-open interval test: [aStart, aEnd) and [bStart, bEnd)
// share at least one instant. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func overlapsAny(chairID uuid.UUID, start, end time.Time, booked []domain.BookedInterval) bool {
	for _, b := range booked {
		if !b.AppliesTo(chairID) {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
