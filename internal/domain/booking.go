package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// transitions is the lifecycle table: pending → confirmed → completed,
// {pending, confirmed} → cancelled. completed and cancelled are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ParseBookingStatus validates a raw status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", ErrUnknownStatus
	}
}

// IsActiveForOverlap returns true while the booking still occupies its interval
func (s BookingStatus) IsActiveForOverlap() bool {
	return s != StatusCancelled
}

// IsTerminal returns true if no transition leaves this status
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the lifecycle allows s → next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesFor returns every status from which next can be entered
func SourcesFor(next BookingStatus) []BookingStatus {
	sources := make([]BookingStatus, 0, 2)
	for _, from := range []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		if from.CanTransitionTo(next) {
			sources = append(sources, from)
		}
	}
	return sources
}

// Booking represents a reservation of one court for a contiguous [StartTime, EndTime) interval
type Booking struct {
	ID         int64
	CourtID    int64
	UserID     int64
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus
	TotalPrice decimal.Decimal

	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its interval
func (b *Booking) IsActive() bool {
	return b.Status.IsActiveForOverlap()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled returns true if the booking interval may still be moved
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// HasEnded returns true once the booking end is not after now
func (b *Booking) HasEnded(now time.Time) bool {
	return !b.EndTime.After(now)
}

// Duration returns the booked interval length
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// OverlapsInterval reports whether the booking intersects [start, end)
func (b *Booking) OverlapsInterval(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// Overlaps is the authoritative half-open interval intersection test:
// [aStart, aEnd) and [bStart, bEnd) overlap iff aStart < bEnd && bStart < aEnd.
// Touching intervals (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CourtBookingsFilter filter for court booking listings
type CourtBookingsFilter struct {
	CourtID          int64          // required
	From             *time.Time     // bookings ending after From (optional)
	To               *time.Time     // bookings starting before To (optional)
	Status           *BookingStatus // optional
	IncludeCancelled bool
}
