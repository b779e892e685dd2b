package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc GetAvailableSlotsUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/shops/{shopId}/available-slots", NewHandler(uc, time.UTC, logger.NewNop()).Handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_OK(t *testing.T) {
	shopID := uuid.New()
	chair := &domain.Chair{ID: uuid.New(), ShopID: shopID, Name: "Window", IsActive: true}
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:            date,
		ShopID:          shopID,
		DurationMinutes: 45,
		Chairs: []domain.ChairSlots{
			{Chair: chair, DurationMinutes: 45, Slots: []types.TimeString{"09:00", "09:45"}},
		},
	}}

	w := serve(uc, "/shops/"+shopID.String()+"/available-slots?date=2025-06-10&chairId="+chair.ID.String())
	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "2025-06-10", resp.Date)
	assert.False(t, resp.Closed)
	require.Len(t, resp.Chairs, 1)
	assert.Equal(t, "Window", resp.Chairs[0].Name)
	assert.Equal(t, []string{"09:00", "09:45"}, resp.Chairs[0].Slots)

	require.NotNil(t, uc.got.ChairID)
	assert.Equal(t, chair.ID, *uc.got.ChairID)
	assert.True(t, uc.got.Date.Equal(date))
}

func TestHandler_Closed(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{Closed: true, DurationMinutes: 45}}

	w := serve(uc, "/shops/"+uuid.NewString()+"/available-slots?date=2025-06-15")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Closed)
	assert.NotNil(t, resp.Chairs)
	assert.Empty(t, resp.Chairs)
}

func TestHandler_Errors(t *testing.T) {
	shop := "/shops/" + uuid.NewString() + "/available-slots"

	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{"bad shop id", "/shops/abc/available-slots?date=2025-06-10", nil, http.StatusBadRequest},
		{"missing date", shop, nil, http.StatusBadRequest},
		{"bad date", shop + "?date=10.06.2025", nil, http.StatusBadRequest},
		{"bad chair", shop + "?date=2025-06-10&chairId=1", nil, http.StatusBadRequest},
		{"shop not found", shop + "?date=2025-06-10", getAvailableSlots.ErrShopNotFound, http.StatusNotFound},
		{"chair not found", shop + "?date=2025-06-10", getAvailableSlots.ErrChairNotFound, http.StatusNotFound},
		{"past date", shop + "?date=2025-06-10", getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{"too far", shop + "?date=2025-06-10", getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"internal", shop + "?date=2025-06-10", getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
