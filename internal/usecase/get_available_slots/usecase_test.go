package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type fakeSchedule struct {
	sched    *domain.ShopSchedule
	err      error
	from, to time.Time
}

func (f *fakeSchedule) GetShopSchedule(_ context.Context, shopID uuid.UUID, from, to time.Time) (*domain.ShopSchedule, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	if f.sched.Shop.ID != shopID {
		return nil, schedule.ErrShopNotFound
	}
	return f.sched, nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func setup(now time.Time) (*UseCase, *fakeSchedule, uuid.UUID, uuid.UUID) {
	shopID := uuid.New()
	chairA := uuid.New()
	chairB := uuid.New()
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC) // вторник

	sched := &fakeSchedule{sched: &domain.ShopSchedule{
		Shop: &domain.Shop{
			ID: shopID,
			BusinessHours: domain.BusinessHours{
				Tuesday:   &domain.DaySchedule{Open: "09:00", Close: "17:00", IsOpen: true},
				Wednesday: &domain.DaySchedule{Open: "09:00", Close: "17:00", IsOpen: false},
			},
		},
		Chairs: []*domain.Chair{
			{ID: chairA, ShopID: shopID, Name: "A", IsActive: true},
			{ID: chairB, ShopID: shopID, Name: "B", IsActive: true},
		},
		Booked: []domain.BookedInterval{
			{ChairID: chairA, Start: day.Add(12 * time.Hour), End: day.Add(13 * time.Hour)},
		},
	}}

	uc := NewUseCase(sched, Options{SlotDurationMinutes: 60, WindowDays: 4, Location: time.UTC}, logger.NewNop())
	uc.timeProvider = fixedClock(now)
	return uc, sched, chairA, chairB
}

func TestUseCase_Execute_PerChair(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	uc, sched, chairA, chairB := setup(day.Add(8 * time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{ShopID: sched.sched.Shop.ID, Date: day.Add(15 * time.Hour)})
	require.NoError(t, err)

	assert.False(t, resp.Closed)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, day, sched.from)
	assert.Equal(t, day.AddDate(0, 0, 1), sched.to)
	require.Len(t, resp.Chairs, 2)

	assert.Equal(t, chairA, resp.Chairs[0].Chair.ID)
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, resp.Chairs[0].Slots)

	assert.Equal(t, chairB, resp.Chairs[1].Chair.ID)
	assert.Len(t, resp.Chairs[1].Slots, 8)
}

func TestUseCase_Execute_SingleChairAfterNow(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	uc, sched, _, chairB := setup(day.Add(11*time.Hour + 30*time.Minute))

	resp, err := uc.Execute(context.Background(), &Request{ShopID: sched.sched.Shop.ID, Date: day, ChairID: &chairB})
	require.NoError(t, err)
	require.Len(t, resp.Chairs, 1)
	assert.Equal(t, []types.TimeString{"12:00", "13:00", "14:00", "15:00", "16:00"}, resp.Chairs[0].Slots)
}

func TestUseCase_Execute_ClosedDay(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	uc, sched, _, _ := setup(day)

	resp, err := uc.Execute(context.Background(), &Request{ShopID: sched.sched.Shop.ID, Date: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	for _, c := range resp.Chairs {
		assert.True(t, c.IsFull())
		assert.NotNil(t, c.Slots)
	}
}

func TestUseCase_Execute_Errors(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	uc, sched, _, _ := setup(day.Add(10 * time.Hour))
	shopID := sched.sched.Shop.ID
	unknownChair := uuid.New()
	nilChair := uuid.Nil

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"missing shop", &Request{Date: day}, ErrInvalidInput},
		{"missing date", &Request{ShopID: shopID}, ErrInvalidInput},
		{"empty chair", &Request{ShopID: shopID, Date: day, ChairID: &nilChair}, ErrInvalidInput},
		{"yesterday", &Request{ShopID: shopID, Date: day.AddDate(0, 0, -1)}, ErrInvalidDate},
		{"beyond window", &Request{ShopID: shopID, Date: day.AddDate(0, 0, 4)}, ErrDateTooFarInFuture},
		{"unknown shop", &Request{ShopID: uuid.New(), Date: day}, ErrShopNotFound},
		{"unknown chair", &Request{ShopID: shopID, Date: day, ChairID: &unknownChair}, ErrChairNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := uc.Execute(context.Background(), &Request{ShopID: shopID, Date: day.AddDate(0, 0, 3)})
	assert.NoError(t, err)

	sched.err = errors.New("db down")
	_, err = uc.Execute(context.Background(), &Request{ShopID: shopID, Date: day})
	assert.ErrorIs(t, err, ErrInternal)
}
