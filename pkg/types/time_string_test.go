package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"09:00", false},
		{"23:59", false},
		{"00:00", false},
		{"9:00", true},
		{"24:00", true},
		{"12:60", true},
		{"", true},
		{"noon", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, ts.String())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("16:15")

	got, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("17:00"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(5)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("17:00"))
	assert.True(t, TimeString("17:01").IsAfter("17:00"))
	assert.Equal(t, 9*60+30, TimeString("09:30").Minutes())
	assert.Equal(t, -1, TimeString("x").Minutes())
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("shop", 3*60*60)
	date := time.Date(2026, 3, 2, 22, 15, 0, 0, loc)

	got := TimeString("09:45").On(date)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 45, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestNewTimeString(t *testing.T) {
	assert.Equal(t, TimeString("08:05"), NewTimeString(time.Date(2026, 1, 1, 8, 5, 59, 0, time.UTC)))
}
