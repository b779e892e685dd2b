package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 45
	DefaultScheduleWindowDays  = 4
)

// Business validation constants
const (
	MaxCustomerNameLength   = 100
	MaxCustomerPhoneLength  = 32
	MaxIdempotencyKeyLength = 128
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
