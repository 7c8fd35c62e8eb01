package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

func TestValidateInterval(t *testing.T) {
	court := morningCourt()
	court.BlackoutDates = []string{"2025-06-23"}
	monday := func(h, m int) time.Time { return time.Date(2025, 6, 16, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    error
	}{
		{"whole window", monday(9, 0), monday(12, 0), nil},
		{"unaligned inside", monday(9, 15), monday(10, 45), nil},
		{"starts before opening", monday(8, 30), monday(9, 30), ErrOutsideOperatingHours},
		{"ends after closing", monday(11, 30), monday(12, 30), ErrOutsideOperatingHours},
		{"spans midnight", monday(11, 0), monday(11, 0).AddDate(0, 0, 1), ErrOutsideOperatingHours},
		{"closed weekday", monday(10, 0).AddDate(0, 0, 3), monday(11, 0).AddDate(0, 0, 3), ErrCourtClosed},
		{"blackout", monday(10, 0).AddDate(0, 0, 7), monday(11, 0).AddDate(0, 0, 7), ErrCourtClosed},
		{"end before start", monday(11, 0), monday(10, 0), domain.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterval(court, tt.start, tt.end)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateInterval_UntilMidnight(t *testing.T) {
	court := &domain.Court{Availability: domain.WeeklySchedule{Mon: hours("18:00", "24:00")}}
	monday := func(h, m int) time.Time { return time.Date(2025, 6, 16, h, m, 0, 0, time.UTC) }

	assert.NoError(t, ValidateInterval(court, monday(23, 0), monday(24, 0)))
	assert.NoError(t, ValidateInterval(court, monday(22, 30), monday(24, 0)))
	assert.ErrorIs(t, ValidateInterval(court, monday(23, 30), monday(24, 30)), ErrOutsideOperatingHours)
	assert.ErrorIs(t, ValidateInterval(court, monday(17, 0), monday(19, 0)), ErrOutsideOperatingHours)
}
