package get_shop_appointments

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

func TestToServiceRequest(t *testing.T) {
	shopID, chairID := uuid.New(), uuid.New()
	caller := domain.Identity{UserID: uuid.New()}

	req, err := ToServiceRequest(shopID, caller, url.Values{
		"chairId": {chairID.String()},
		"from":    {"2025-06-10T00:00:00Z"},
		"to":      {"2025-06-11T00:00:00Z"},
		"status":  {"booked"},
	})
	require.NoError(t, err)
	assert.Equal(t, shopID, req.ShopID)
	require.NotNil(t, req.ChairID)
	assert.Equal(t, chairID, *req.ChairID)
	assert.True(t, req.From.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, req.To.Equal(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "booked", *req.Status)

	empty, err := ToServiceRequest(shopID, caller, url.Values{})
	require.NoError(t, err)
	assert.Nil(t, empty.ChairID)
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.Status)

	for _, bad := range []url.Values{
		{"chairId": {"1"}},
		{"from": {"2025-06-10"}},
		{"to": {"noon"}},
	} {
		_, err := ToServiceRequest(shopID, caller, bad)
		assert.Error(t, err, bad.Encode())
	}
}
