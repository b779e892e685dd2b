package get_shop_schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/schedule"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeSchedule struct {
	from, to time.Time
	result   *domain.ShopSchedule
	err      error
}

func (f *fakeSchedule) GetShopSchedule(_ context.Context, _ uuid.UUID, from, to time.Time) (*domain.ShopSchedule, error) {
	f.from, f.to = from, to
	return f.result, f.err
}

func (f *fakeSchedule) WindowDays() int { return 4 }

func serve(svc ScheduleService, target string) *httptest.ResponseRecorder {
	h := NewHandler(svc, time.UTC, logger.NewNop())
	h.now = func() time.Time { return time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC) }

	r := mux.NewRouter()
	r.HandleFunc("/shops/{shopId}/schedule", h.Handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_DefaultRange(t *testing.T) {
	shop := &domain.Shop{
		ID:   uuid.New(),
		Name: "Fade Factory",
		BusinessHours: domain.BusinessHours{
			Tuesday: &domain.DaySchedule{Open: "09:00", Close: "17:00", IsOpen: true},
		},
	}
	chair := &domain.Chair{ID: uuid.New(), ShopID: shop.ID, Name: "A", IsActive: true}
	start := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)

	svc := &fakeSchedule{result: &domain.ShopSchedule{
		Shop:   shop,
		Chairs: []*domain.Chair{chair},
		Booked: []domain.BookedInterval{{ChairID: chair.ID, Start: start, End: start.Add(45 * time.Minute)}},
		From:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
	}}

	w := serve(svc, "/shops/"+shop.ID.String()+"/schedule")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), svc.from)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), svc.to)

	var resp ShopScheduleResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Fade Factory", resp.Name)
	require.NotNil(t, resp.BusinessHours.Tuesday)
	assert.True(t, resp.BusinessHours.Tuesday.IsOpen)
	assert.Nil(t, resp.BusinessHours.Wednesday)
	require.Len(t, resp.BookedIntervals, 1)
	assert.Equal(t, "2025-06-10T16:00:00Z", resp.BookedIntervals[0].Start)
	assert.Equal(t, chair.ID.String(), resp.BookedIntervals[0].ChairID)
}

func TestHandler_ExplicitRange(t *testing.T) {
	svc := &fakeSchedule{result: &domain.ShopSchedule{Shop: &domain.Shop{ID: uuid.New()}}}

	w := serve(svc, "/shops/"+uuid.NewString()+"/schedule?from=2025-06-11&to=2025-06-12")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), svc.from)
	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), svc.to)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		target     string
		err        error
		wantStatus int
	}{
		{"/shops/x/schedule", nil, http.StatusBadRequest},
		{"/shops/" + uuid.NewString() + "/schedule?from=tomorrow", nil, http.StatusBadRequest},
		{"/shops/" + uuid.NewString() + "/schedule", schedule.ErrShopNotFound, http.StatusNotFound},
		{"/shops/" + uuid.NewString() + "/schedule", schedule.ErrInvalidRange, http.StatusBadRequest},
		{"/shops/" + uuid.NewString() + "/schedule", fmt.Errorf("%w: boom", schedule.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := serve(&fakeSchedule{err: tt.err}, tt.target)
		assert.Equal(t, tt.wantStatus, w.Code, tt.target)
	}
}
