package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
user = "barber"
dbname = "barber_booking"

[identity]
url = "http://identity.local"
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse(minimalConfig)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 45, cfg.Booking.SlotDurationMinutes)
	assert.Equal(t, 4, cfg.Booking.ScheduleWindowDays)
	assert.Equal(t, 5*time.Second, cfg.Booking.CommitTimeout())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "host=localhost port=5432 user=barber password= dbname=barber_booking sslmode=disable", cfg.Database.DSN())
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{"bad port", "[server]\nhttp_port = 70000\n"},
		{"zero duration", "[booking]\nslot_duration_minutes = 0\n"},
		{"zero window", "[booking]\nschedule_window_days = 0\n"},
		{"unknown location", "[booking]\nlocation = \"Mars/Olympus\"\n"},
		{"redis without ttl", "[redis]\nenabled = true\nttl_seconds = 0\n"},
		{"bad trusted proxy", "[booking]\ntrusted_proxies = [\"10.0.0.0/33\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(minimalConfig + tt.extra)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_MissingIdentity(t *testing.T) {
	_, err := Parse("[database]\nuser = \"u\"\ndbname = \"d\"\n")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParse_BrokenToml(t *testing.T) {
	_, err := Parse("[server\nhttp_port = ")
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig+"[booking]\nslot_duration_minutes = 60\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Booking.SlotDurationMinutes)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestBookingConfig_TrustedProxyPrefixes(t *testing.T) {
	cfg, err := Parse(minimalConfig + "[booking]\ntrusted_proxies = [\"10.0.0.0/8\", \"192.168.1.7\", \"::1\"]\n")
	require.NoError(t, err)

	prefixes, err := cfg.Booking.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.168.1.7/32", prefixes[1].String())
	assert.Equal(t, "::1/128", prefixes[2].String())

	empty, err := Parse(minimalConfig)
	require.NoError(t, err)
	prefixes, err = empty.Booking.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Empty(t, prefixes)
}
