package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type fakeBookings struct {
	bookings []*domain.Booking
	err      error
	filters  []domain.CourtBookingsFilter
}

func (f *fakeBookings) GetByCourtWithFilter(_ context.Context, filter domain.CourtBookingsFilter) ([]*domain.Booking, error) {
	f.filters = append(f.filters, filter)
	return f.bookings, f.err
}

type courts map[int64]*domain.Court

func (c courts) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	court, ok := c[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return court, nil
}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

func at(h, m int) time.Time {
	return time.Date(2025, 6, 16, h, m, 0, 0, time.UTC)
}

// Корт открыт по понедельникам 09:00-12:00; 2025-06-23 в blackout, хотя на него есть override
func newUseCase(bookings *fakeBookings, now time.Time) *UseCase {
	court := &domain.Court{
		ID: 7,
		Availability: domain.WeeklySchedule{
			Mon: &domain.OperatingHours{Open: types.MustTimeString("09:00"), Close: types.MustTimeString("12:00")},
		},
		AvailabilityOverrides: map[string]domain.OperatingHours{
			"2025-06-23": {Open: types.MustTimeString("10:00"), Close: types.MustTimeString("20:00")},
		},
		BlackoutDates: []string{"2025-06-23"},
		HourlyRate:    decimal.NewFromInt(100),
	}
	return NewUseCase(bookings, courts{7: court}, logger.Nop()).WithTimeProvider(fixedTime(now))
}

func slotTimes(slots []domain.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time
	}
	return out
}

func TestGetAvailableSlots_NoBookings(t *testing.T) {
	uc := newUseCase(&fakeBookings{}, at(0, 0).AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 7, Date: at(0, 0)})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotTimes(resp.AvailableSlots))
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotTimes(resp.AllSlots))
	for _, s := range resp.AvailableSlots {
		assert.True(t, s.Available)
		assert.True(t, s.Price.Equal(decimal.NewFromInt(100)))
	}
	require.NotNil(t, resp.OperatingHours)
	assert.Equal(t, "09:00", resp.OperatingHours.Open.String())
	assert.True(t, resp.PricePerHour.Equal(decimal.NewFromInt(100)))
}

func TestGetAvailableSlots_BookedSlotExcluded(t *testing.T) {
	bookings := &fakeBookings{bookings: []*domain.Booking{
		{ID: 1, CourtID: 7, StartTime: at(10, 0), EndTime: at(11, 0), Status: domain.StatusConfirmed},
	}}
	uc := newUseCase(bookings, at(0, 0).AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 7, Date: at(0, 0)})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "11:00"}, slotTimes(resp.AvailableSlots))
	require.Len(t, resp.AllSlots, 3)
	assert.Equal(t, "10:00", resp.AllSlots[1].Time)
	assert.False(t, resp.AllSlots[1].Available)

	require.Len(t, bookings.filters, 1)
	filter := bookings.filters[0]
	assert.Equal(t, int64(7), filter.CourtID)
	assert.Equal(t, at(0, 0), *filter.From)
	assert.Equal(t, at(0, 0).AddDate(0, 0, 1), *filter.To)
	assert.False(t, filter.IncludeCancelled)
}

func TestGetAvailableSlots_PastSlotsUnavailable(t *testing.T) {
	uc := newUseCase(&fakeBookings{}, at(10, 30))

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 7, Date: at(0, 0)})
	require.NoError(t, err)

	assert.Equal(t, []string{"11:00"}, slotTimes(resp.AvailableSlots))
	assert.Len(t, resp.AllSlots, 3)
}

func TestGetAvailableSlots_Closed(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
	}{
		{"closed weekday", at(0, 0).AddDate(0, 0, 1)},
		{"blackout with override", at(0, 0).AddDate(0, 0, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &fakeBookings{}
			uc := newUseCase(bookings, at(0, 0))

			resp, err := uc.Execute(context.Background(), &Request{CourtID: 7, Date: tt.date})
			require.NoError(t, err)

			assert.Empty(t, resp.AvailableSlots)
			assert.Empty(t, resp.AllSlots)
			assert.Nil(t, resp.OperatingHours)
			assert.Empty(t, bookings.filters, "closed date must not query bookings")
		})
	}
}

func TestGetAvailableSlots_Errors(t *testing.T) {
	uc := newUseCase(&fakeBookings{}, at(0, 0))

	_, err := uc.Execute(context.Background(), &Request{CourtID: 0, Date: at(0, 0)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{CourtID: 7})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{CourtID: 99, Date: at(0, 0)})
	assert.ErrorIs(t, err, ErrCourtNotFound)

	failing := newUseCase(&fakeBookings{err: errors.New("timeout")}, at(0, 0))
	_, err = failing.Execute(context.Background(), &Request{CourtID: 7, Date: at(0, 0)})
	assert.ErrorIs(t, err, ErrInternal)
}
