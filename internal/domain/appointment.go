package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	return s == StatusBooked || s == StatusCancelled
}

// Appointment is a booking of one chair for [StartTime, EndTime)
type Appointment struct {
	ID      uuid.UUID
	ShopID  uuid.UUID
	ChairID uuid.UUID

	CustomerID    *uuid.UUID // nil for an anonymous customer
	CustomerName  string
	CustomerPhone string

	StartTime time.Time
	EndTime   time.Time
	Status    AppointmentStatus

	IdempotencyKey *string
	CancelledAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still holds its chair
func (a *Appointment) IsActive() bool {
	return a.Status == StatusBooked
}

// CanBeCancelled returns true if the booked -> cancelled transition is possible
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusBooked
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// IsBookedBy returns true if the appointment was made by the registered user
func (a *Appointment) IsBookedBy(userID uuid.UUID) bool {
	return a.CustomerID != nil && userID != uuid.Nil && *a.CustomerID == userID
}

// Interval returns the occupied interval of the chair
func (a *Appointment) Interval() BookedInterval {
	return BookedInterval{ChairID: a.ChairID, Start: a.StartTime, End: a.EndTime}
}

// BookedInterval is a half-open [Start, End) interval reserved on a chair.
// A zero ChairID means the interval blocks every chair.
type BookedInterval struct {
	ChairID uuid.UUID
	Start   time.Time
	End     time.Time
}

// AppliesTo returns true if the interval blocks the given chair
func (b BookedInterval) AppliesTo(chairID uuid.UUID) bool {
	return b.ChairID == uuid.Nil || b.ChairID == chairID
}

// AppointmentsFilter фильтр для выборки записей салона или клиента
type AppointmentsFilter struct {
	ShopID     *uuid.UUID
	ChairID    *uuid.UUID
	CustomerID *uuid.UUID
	From       *time.Time         // start_time >= From
	To         *time.Time         // start_time < To
	Status     *AppointmentStatus // nil - все статусы
}
