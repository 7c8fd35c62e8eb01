package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Slot is a derived, fixed-duration candidate booking window. Never persisted.
type Slot struct {
	Time      string // "HH:MM" label of Start
	Start     time.Time
	End       time.Time
	Available bool
	Price     decimal.Decimal
}

// DurationMinutes returns the slot width in minutes
func (s Slot) DurationMinutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}
