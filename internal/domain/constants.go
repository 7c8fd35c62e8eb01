package domain

// Default configuration values
const (
	DefaultBookingDurationMinutes = 60
)

// Business validation constants
const (
	MinBookingDurationMinutes   = 5
	MaxBookingDurationMinutes   = 480 // 8 hours
	MaxBookingLengthMinutes     = 24 * 60
	MaxCancellationReasonLength = 500
	PriceDecimalPlaces          = 2
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses statuses that no longer occupy their interval
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// ActiveStatuses statuses that occupy their interval for overlap purposes
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
