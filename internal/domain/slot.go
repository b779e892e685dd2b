package domain

import "github.com/m04kA/SMC-BarberBooking/pkg/types"

// ChairSlots is the ordered list of bookable start times of one chair on one date.
// Slots are computed on demand and never stored.
type ChairSlots struct {
	Chair           *Chair
	DurationMinutes int
	Slots           []types.TimeString
}

// IsFull returns true if no slot is left on the chair
func (c *ChairSlots) IsFull() bool {
	return len(c.Slots) == 0
}
