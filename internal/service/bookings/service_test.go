package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

// memRepo хранилище бронирований в памяти с CAS-семантикой UpdateStatus
type memRepo struct {
	bookings map[int64]*domain.Booking
	// beforeUpdate вызывается перед CAS, чтобы смоделировать параллельный запрос
	beforeUpdate func()
	err          error
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID && (status == nil || b.Status == *status) {
			out = append(out, b)
		}
	}
	return out, r.err
}

func (r *memRepo) GetByCourtWithFilter(_ context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.CourtID != filter.CourtID {
			continue
		}
		if !filter.IncludeCancelled && b.Status == domain.StatusCancelled {
			continue
		}
		if filter.From != nil && filter.To != nil && !b.OverlapsInterval(*filter.From, *filter.To) {
			continue
		}
		out = append(out, b)
	}
	return out, r.err
}

func (r *memRepo) UpdateStatus(_ context.Context, upd bookingRepo.StatusUpdate) (*domain.Booking, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	b, ok := r.bookings[upd.ID]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	matched := false
	for _, from := range upd.From {
		if b.Status == from {
			matched = true
		}
	}
	if !matched {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = upd.To
	at := upd.At
	switch upd.To {
	case domain.StatusCancelled:
		b.CancellationReason = upd.Reason
		b.CancelledAt = &at
	case domain.StatusCompleted:
		b.CompletedAt = &at
	}
	cp := *b
	return &cp, nil
}

func (r *memRepo) CompleteFinished(_ context.Context, now time.Time) ([]*domain.Booking, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.Status == domain.StatusConfirmed && b.HasEnded(now) {
			b.Status = domain.StatusCompleted
			b.CompletedAt = &now
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memRepo) CountByUserAndStatus(_ context.Context, userID int64) (map[domain.BookingStatus]int64, error) {
	counts := make(map[domain.BookingStatus]int64)
	for _, b := range r.bookings {
		if b.UserID == userID {
			counts[b.Status]++
		}
	}
	return counts, r.err
}

type courts map[int64]*domain.Court

func (c courts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	court, ok := c[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return court, nil
}

type fakeCounter struct {
	values map[int64]int64
	err    error
}

func (c *fakeCounter) Adjust(_ context.Context, userID int64, delta int64) error {
	if c.err != nil {
		return c.err
	}
	c.values[userID] += delta
	return nil
}

func (c *fakeCounter) Get(_ context.Context, userID int64) (int64, error) {
	return c.values[userID], c.err
}

func (c *fakeCounter) Reset(_ context.Context, userID int64, value int64) error {
	if c.err != nil {
		return c.err
	}
	c.values[userID] = value
	return nil
}

type fakeOutcomes map[string]int

func (f fakeOutcomes) RecordBookingOutcome(operation, outcome string) {
	f[operation+"/"+outcome]++
}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

func at(h, m int) time.Time {
	return time.Date(2025, 6, 16, h, m, 0, 0, time.UTC)
}

// Корт 7; сейчас 12:00
// 1: user 1, 09:00-10:00 confirmed (закончилось); 2: user 1, 14:00-15:00 confirmed;
// 3: user 1, 16:00-17:00 pending; 4: user 2, 18:00-19:00 cancelled
type fixture struct {
	svc      *Service
	repo     *memRepo
	counter  *fakeCounter
	outcomes fakeOutcomes
}

func newFixture() *fixture {
	booking := func(id, user int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
		return &domain.Booking{
			ID: id, CourtID: 7, UserID: user, StartTime: start, EndTime: end,
			Status: status, TotalPrice: decimal.NewFromInt(50),
		}
	}
	repo := &memRepo{bookings: map[int64]*domain.Booking{
		1: booking(1, 1, at(9, 0), at(10, 0), domain.StatusConfirmed),
		2: booking(2, 1, at(14, 0), at(15, 0), domain.StatusConfirmed),
		3: booking(3, 1, at(16, 0), at(17, 0), domain.StatusPending),
		4: booking(4, 2, at(18, 0), at(19, 0), domain.StatusCancelled),
	}}
	counter := &fakeCounter{values: map[int64]int64{1: 2}}
	outcomes := fakeOutcomes{}

	svc := NewService(repo, courts{7: {ID: 7}}, counter, outcomes, logger.Nop()).
		WithTimeProvider(fixedTime(at(12, 0)))
	return &fixture{svc: svc, repo: repo, counter: counter, outcomes: outcomes}
}

func TestGetByID(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetByID(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ID)
	assert.Equal(t, "2025-06-16T14:00:00Z", resp.StartTime)
	assert.Equal(t, "50.00", resp.TotalPrice)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = f.svc.GetByID(context.Background(), 2, 2)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	f.repo.err = errors.New("connection reset")
	_, err = f.svc.GetByID(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestCancel_ConfirmedDecrementsCounter(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: 1, CancellationReason: "  rain  "})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "rain", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, "2025-06-16T12:00:00Z", *resp.CancelledAt)
	assert.Equal(t, int64(1), f.counter.values[1])
	assert.Equal(t, 1, f.outcomes["cancel/success"])
}

func TestCancel_PendingKeepsCounter(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Cancel(context.Background(), 3, &models.CancelBookingRequest{UserID: 1})
	require.NoError(t, err)
	assert.Nil(t, resp.CancellationReason)
	assert.Equal(t, int64(2), f.counter.values[1])
}

func TestCancel_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		req     *models.CancelBookingRequest
		wantErr error
	}{
		{"foreign booking", 2, &models.CancelBookingRequest{UserID: 2}, ErrAccessDenied},
		{"already cancelled", 4, &models.CancelBookingRequest{UserID: 2}, ErrInvalidTransition},
		{"unknown booking", 99, &models.CancelBookingRequest{UserID: 1}, ErrBookingNotFound},
		{"reason too long", 2, &models.CancelBookingRequest{UserID: 1, CancellationReason: strings.Repeat("x", domain.MaxCancellationReasonLength+1)}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Cancel(context.Background(), tt.id, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(2), f.counter.values[1])
		})
	}
}

func TestCancel_ReasonAtLimit(t *testing.T) {
	f := newFixture()

	reason := strings.Repeat("é", domain.MaxCancellationReasonLength)
	_, err := f.svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: 1, CancellationReason: reason})
	assert.NoError(t, err)
}

func TestConfirm(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Confirm(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, int64(3), f.counter.values[1])

	_, err = f.svc.Confirm(context.Background(), 3, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition, "confirmed cannot be confirmed again")
	assert.Equal(t, int64(3), f.counter.values[1])
	assert.Equal(t, 1, f.outcomes["confirm/conflict"])
}

func TestComplete(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Complete(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrNotFinished)

	_, err = f.svc.Complete(context.Background(), 3, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot be completed")

	resp, err := f.svc.Complete(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.CompletedAt)
	assert.Equal(t, int64(2), f.counter.values[1], "completion keeps the confirmed counter")
}

func TestTransition_ConcurrentStatusChange(t *testing.T) {
	f := newFixture()
	// Параллельный запрос подтверждает бронирование между чтением и CAS
	f.repo.beforeUpdate = func() {
		f.repo.bookings[3].Status = domain.StatusConfirmed
	}

	_, err := f.svc.Cancel(context.Background(), 3, &models.CancelBookingRequest{UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[3].Status)
	assert.Equal(t, int64(2), f.counter.values[1])
}

func TestTransition_CounterFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.counter.err = errors.New("redis down")

	resp, err := f.svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
}

func TestCompleteExpired(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CompleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Completed)
	assert.Equal(t, []int64{1}, resp.BookingIDs)
	assert.Equal(t, domain.StatusCompleted, f.repo.bookings[1].Status)
	assert.Equal(t, domain.StatusConfirmed, f.repo.bookings[2].Status)

	resp, err = f.svc.CompleteExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.Completed)
	assert.NotNil(t, resp.BookingIDs)
}

func TestGetBookingStats(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetBookingStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.ConfirmedTotal)
	require.NotNil(t, resp.ConfirmedCounter)
	assert.Equal(t, int64(2), *resp.ConfirmedCounter)
	assert.False(t, resp.CounterResynced)
	assert.Equal(t, map[string]int64{"pending": 1, "confirmed": 2, "completed": 0, "cancelled": 0}, resp.ByStatus)
}

func TestGetBookingStats_ResyncsDrift(t *testing.T) {
	f := newFixture()
	f.counter.values[1] = 7

	resp, err := f.svc.GetBookingStats(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, resp.CounterResynced)
	assert.Equal(t, int64(2), *resp.ConfirmedCounter)
	assert.Equal(t, int64(2), f.counter.values[1])
}

func TestGetBookingStats_CounterUnavailable(t *testing.T) {
	f := newFixture()
	f.counter.err = errors.New("redis down")

	resp, err := f.svc.GetBookingStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, resp.ConfirmedCounter)
	assert.Equal(t, int64(2), resp.ConfirmedTotal)
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	resp, err = f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 1, Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(3), resp.Bookings[0].ID)

	_, err = f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 1, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err = f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 42})
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}

func TestGetCourtBookings(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetCourtBookings(context.Background(), &models.GetCourtBookingsRequest{CourtID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3, "cancelled excluded by default")

	resp, err = f.svc.GetCourtBookings(context.Background(), &models.GetCourtBookingsRequest{CourtID: 7, IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 4)

	_, err = f.svc.GetCourtBookings(context.Background(), &models.GetCourtBookingsRequest{CourtID: 8})
	assert.ErrorIs(t, err, ErrCourtNotFound)

	_, err = f.svc.GetCourtBookings(context.Background(), &models.GetCourtBookingsRequest{CourtID: 7, Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCounterDelta(t *testing.T) {
	assert.Equal(t, int64(1), counterDelta(domain.StatusPending, domain.StatusConfirmed))
	assert.Equal(t, int64(-1), counterDelta(domain.StatusConfirmed, domain.StatusCancelled))
	assert.Zero(t, counterDelta(domain.StatusPending, domain.StatusCancelled))
	assert.Zero(t, counterDelta(domain.StatusConfirmed, domain.StatusCompleted))
}
