package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// OperatingHours is a wall-clock open/close pair for one day
type OperatingHours struct {
	Open  types.TimeString `json:"open"`
	Close types.TimeString `json:"close"`
}

// Validate checks that both ends are set and close is after open.
// Close may be 24:00 (end of day); open may not.
func (h OperatingHours) Validate() error {
	if err := h.Open.Validate(); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if h.Open.IsEndOfDay() {
		return fmt.Errorf("open: %w: %s is only valid as close", types.ErrInvalidTimeString, types.EndOfDay)
	}
	if err := h.Close.Validate(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if !h.Close.IsAfter(h.Open) {
		return fmt.Errorf("close %s must be after open %s", h.Close, h.Open)
	}
	return nil
}

// WeeklySchedule default operating hours per weekday; nil means closed
type WeeklySchedule struct {
	Mon *OperatingHours `json:"mon,omitempty"`
	Tue *OperatingHours `json:"tue,omitempty"`
	Wed *OperatingHours `json:"wed,omitempty"`
	Thu *OperatingHours `json:"thu,omitempty"`
	Fri *OperatingHours `json:"fri,omitempty"`
	Sat *OperatingHours `json:"sat,omitempty"`
	Sun *OperatingHours `json:"sun,omitempty"`
}

// ForWeekday returns the default hours for a weekday (Sunday=0 … Saturday=6)
func (w WeeklySchedule) ForWeekday(day time.Weekday) *OperatingHours {
	switch day {
	case time.Sunday:
		return w.Sun
	case time.Monday:
		return w.Mon
	case time.Tuesday:
		return w.Tue
	case time.Wednesday:
		return w.Wed
	case time.Thursday:
		return w.Thu
	case time.Friday:
		return w.Fri
	case time.Saturday:
		return w.Sat
	default:
		return nil
	}
}

func (w WeeklySchedule) days() map[string]*OperatingHours {
	return map[string]*OperatingHours{
		"mon": w.Mon, "tue": w.Tue, "wed": w.Wed, "thu": w.Thu,
		"fri": w.Fri, "sat": w.Sat, "sun": w.Sun,
	}
}

// Court is a bookable physical resource within a venue.
// Court configuration is read-only for the booking path.
type Court struct {
	ID                     int64
	VenueID                int64
	Name                   string
	Availability           WeeklySchedule
	AvailabilityOverrides  map[string]OperatingHours // ISO date → replacement hours
	BlackoutDates          []string                  // ISO dates
	BookingDurationMinutes int
	HourlyRate             decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotDurationMinutes returns the slot width, falling back to the default
func (c *Court) SlotDurationMinutes() int {
	if c.BookingDurationMinutes <= 0 {
		return DefaultBookingDurationMinutes
	}
	return c.BookingDurationMinutes
}

// IsBlackout reports whether the court is closed for the whole date
func (c *Court) IsBlackout(date time.Time) bool {
	key := DateKey(date)
	for _, d := range c.BlackoutDates {
		if d == key {
			return true
		}
	}
	return false
}

// ResolveHours returns the effective hours for date, or nil when the court is closed.
// Precedence: weekday default < per-date override (replaces it entirely) < blackout (always closed).
func (c *Court) ResolveHours(date time.Time) *OperatingHours {
	hours := c.Availability.ForWeekday(date.Weekday())

	if override, ok := c.AvailabilityOverrides[DateKey(date)]; ok {
		o := override
		hours = &o
	}

	if hours == nil || c.IsBlackout(date) {
		return nil
	}
	return hours
}

// OperatingWindow returns the bookable [open:00, close:00) window of date.
// Only whole hours count: minutes of open/close are dropped.
// A 24:00 close ends the window at midnight of the next day.
func (c *Court) OperatingWindow(date time.Time) (start, end time.Time, ok bool) {
	hours := c.ResolveHours(date)
	if hours == nil {
		return time.Time{}, time.Time{}, false
	}
	day := DateOnly(date)
	start = day.Add(time.Duration(hours.Open.Hour()) * time.Hour)
	end = day.Add(time.Duration(hours.Close.Hour()) * time.Hour)
	return start, end, true
}

// Validate is the load-boundary check for a stored court configuration
func (c *Court) Validate() error {
	for day, hours := range c.Availability.days() {
		if hours == nil {
			continue
		}
		if err := hours.Validate(); err != nil {
			return fmt.Errorf("%w: availability.%s: %v", ErrInvalidCourtConfig, day, err)
		}
	}

	for date, hours := range c.AvailabilityOverrides {
		if _, err := ParseDate(date); err != nil {
			return fmt.Errorf("%w: override key %q is not an ISO date", ErrInvalidCourtConfig, date)
		}
		if err := hours.Validate(); err != nil {
			return fmt.Errorf("%w: override %s: %v", ErrInvalidCourtConfig, date, err)
		}
	}

	for _, date := range c.BlackoutDates {
		if _, err := ParseDate(date); err != nil {
			return fmt.Errorf("%w: blackout date %q is not an ISO date", ErrInvalidCourtConfig, date)
		}
	}

	if c.BookingDurationMinutes != 0 &&
		(c.BookingDurationMinutes < MinBookingDurationMinutes || c.BookingDurationMinutes > MaxBookingDurationMinutes) {
		return fmt.Errorf("%w: bookingDurationMinutes must be between %d and %d",
			ErrInvalidCourtConfig, MinBookingDurationMinutes, MaxBookingDurationMinutes)
	}

	if c.HourlyRate.IsNegative() {
		return fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidCourtConfig)
	}

	return nil
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) as UTC midnight
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}

// DateOnly truncates t to UTC midnight of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar date of t as YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}
