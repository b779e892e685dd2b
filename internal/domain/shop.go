package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// ErrInvalidBusinessHours is returned when a weekday schedule is malformed
var ErrInvalidBusinessHours = errors.New("domain: invalid business hours")

// Shop is a tenant: a barbershop with its weekly business hours
type Shop struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Name          string
	BusinessHours BusinessHours
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOwnedBy returns true if userID is the shop owner
func (s *Shop) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && s.OwnerID == userID
}

// Chair (station) is a bookable resource within a shop.
// The id is an opaque key: nothing relies on chair count, order or naming.
type Chair struct {
	ID       uuid.UUID
	ShopID   uuid.UUID
	Name     string
	IsActive bool
}

// DaySchedule is the open/close window of a single weekday
type DaySchedule struct {
	Open   types.TimeString `json:"open"`
	Close  types.TimeString `json:"close"`
	IsOpen bool             `json:"isOpen"`
}

// Validate checks that an open day has a well-formed window with open < close.
// Closed days are always valid, their open/close values are ignored.
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if err := d.Open.Validate(); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if err := d.Close.Validate(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if !d.Open.IsBefore(d.Close) {
		return fmt.Errorf("open %s must be before close %s", d.Open, d.Close)
	}
	return nil
}

// Contains reports whether [start, end) wall-clock minutes fit inside the open window
func (d DaySchedule) Contains(start, end types.TimeString) bool {
	if !d.IsOpen {
		return false
	}
	return start.Minutes() >= d.Open.Minutes() && end.Minutes() <= d.Close.Minutes() && start.IsBefore(end)
}

// BusinessHours is the weekly schedule keyed by weekday.
// A nil entry means the weekday is not configured and is treated as closed.
type BusinessHours struct {
	Monday    *DaySchedule `json:"monday,omitempty"`
	Tuesday   *DaySchedule `json:"tuesday,omitempty"`
	Wednesday *DaySchedule `json:"wednesday,omitempty"`
	Thursday  *DaySchedule `json:"thursday,omitempty"`
	Friday    *DaySchedule `json:"friday,omitempty"`
	Saturday  *DaySchedule `json:"saturday,omitempty"`
	Sunday    *DaySchedule `json:"sunday,omitempty"`
}

// ForWeekday returns the schedule of the weekday, or nil if it is not configured
func (b BusinessHours) ForWeekday(day time.Weekday) *DaySchedule {
	switch day {
	case time.Monday:
		return b.Monday
	case time.Tuesday:
		return b.Tuesday
	case time.Wednesday:
		return b.Wednesday
	case time.Thursday:
		return b.Thursday
	case time.Friday:
		return b.Friday
	case time.Saturday:
		return b.Saturday
	case time.Sunday:
		return b.Sunday
	}
	return nil
}

// ForDate returns the schedule of date's weekday and whether the shop works that day
func (b BusinessHours) ForDate(date time.Time) (DaySchedule, bool) {
	day := b.ForWeekday(date.Weekday())
	if day == nil || !day.IsOpen {
		return DaySchedule{}, false
	}
	return *day, true
}

// Validate reports the first malformed weekday, Monday first
func (b BusinessHours) Validate() error {
	for _, wd := range weekOrder {
		day := b.ForWeekday(wd)
		if day == nil {
			continue
		}
		if err := day.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidBusinessHours, weekdayKey(wd), err)
		}
	}
	return nil
}

// Value stores business hours as JSONB
func (b BusinessHours) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan reads business hours from a JSONB column
func (b *BusinessHours) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*b = BusinessHours{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidBusinessHours, src)
	}

	var decoded BusinessHours
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBusinessHours, err)
	}
	*b = decoded
	return nil
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func weekdayKey(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// ShopSchedule is the read aggregate the booking UI works from:
// shop configuration plus the live booked intervals within [From, To)
type ShopSchedule struct {
	Shop   *Shop
	Chairs []*Chair
	Booked []BookedInterval
	From   time.Time
	To     time.Time
}

// Chair returns the active chair with the given id, or nil
func (s *ShopSchedule) Chair(id uuid.UUID) *Chair {
	for _, c := range s.Chairs {
		if c.ID == id {
			return c
		}
	}
	return nil
}
