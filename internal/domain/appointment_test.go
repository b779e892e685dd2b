package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppointment_Status(t *testing.T) {
	a := &Appointment{Status: StatusBooked}
	assert.True(t, a.CanBeCancelled())
	assert.True(t, a.IsActive())

	a.Status = StatusCancelled
	assert.False(t, a.CanBeCancelled())
	assert.True(t, a.IsCancelled())
	assert.False(t, AppointmentStatus("pending").IsValid())
}

func TestAppointment_IsBookedBy(t *testing.T) {
	user := uuid.New()
	a := &Appointment{CustomerID: &user}

	assert.True(t, a.IsBookedBy(user))
	assert.False(t, a.IsBookedBy(uuid.New()))
	assert.False(t, (&Appointment{}).IsBookedBy(user))
	assert.False(t, (&Appointment{}).IsBookedBy(uuid.Nil))
}

func TestBookedInterval_AppliesTo(t *testing.T) {
	chair := uuid.New()

	assert.True(t, BookedInterval{ChairID: chair}.AppliesTo(chair))
	assert.False(t, BookedInterval{ChairID: uuid.New()}.AppliesTo(chair))
	assert.True(t, BookedInterval{}.AppliesTo(chair))
}

func TestIdentity(t *testing.T) {
	assert.True(t, Anonymous().IsAnonymous())
	assert.Nil(t, Anonymous().UserIDPtr())

	id := Identity{UserID: uuid.New()}
	assert.False(t, id.IsAnonymous())
	assert.Equal(t, id.UserID, *id.UserIDPtr())
}
