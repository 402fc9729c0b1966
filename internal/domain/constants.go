package domain

// Default configuration values
const (
	DefaultHoldTimeoutSeconds      = 60
	DefaultMaxPeoplePerAppointment = 1
	DefaultSlotDurationMinutes     = 30
)

// Business validation constants
const (
	MinHoldTimeoutSeconds  = 5
	MaxHoldTimeoutSeconds  = 3600 // 1 hour
	MaxSeatsPerAppointment = 1000
	MaxSlotsPerAppointment = 48
	ReferenceLength        = 8
)

// Time format constants
const (
	TimeFormat     = "15:04"      // HH:MM
	DateFormat     = "2006-01-02" // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04"
)
