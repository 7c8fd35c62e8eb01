package booking

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

func TestIsExclusionViolation(t *testing.T) {
	exclusion := &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"}

	assert.True(t, isExclusionViolation(exclusion))
	assert.True(t, isExclusionViolation(fmt.Errorf("insert: %w", exclusion)))
	assert.False(t, isExclusionViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isExclusionViolation(errors.New("connection refused")))
	assert.False(t, isExclusionViolation(nil))
}

func TestStatusStrings(t *testing.T) {
	got := statusStrings([]domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed})
	assert.Equal(t, []string{"pending", "confirmed"}, got)
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullString(sql.NullString{}))
	assert.Equal(t, "rain", *nullString(sql.NullString{String: "rain", Valid: true}))

	assert.Nil(t, nullTime(sql.NullTime{}))
	local := time.Date(2025, 6, 16, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	got := nullTime(sql.NullTime{Time: local, Valid: true})
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(local))
}

func TestOverlappingQuery(t *testing.T) {
	start := time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name      string
		excludeID *int64
		lock      bool
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "outside transaction",
			wantWhere: "WHERE court_id = $1 AND status NOT IN ($2) AND start_time < $3 AND end_time > $4 ORDER BY start_time ASC",
			wantArgs:  []interface{}{int64(7), "cancelled", end, start},
		},
		{
			name:      "locked with excluded booking",
			excludeID: func() *int64 { id := int64(5); return &id }(),
			lock:      true,
			wantWhere: "WHERE court_id = $1 AND status NOT IN ($2) AND start_time < $3 AND end_time > $4 AND id <> $5 ORDER BY start_time ASC FOR UPDATE",
			wantArgs:  []interface{}{int64(7), "cancelled", end, start, int64(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := overlappingQuery(7, start, end, tt.excludeID, tt.lock).ToSql()
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(query, "SELECT id, court_id, user_id, start_time, end_time, status"))
			assert.True(t, strings.HasSuffix(query, "FROM bookings "+tt.wantWhere), query)
			assert.Equal(t, tt.wantArgs, args)
			if !tt.lock {
				assert.NotContains(t, query, "FOR UPDATE")
			}
		})
	}
}

func TestOverlappingQuery_NormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*3600)
	start := time.Date(2025, 6, 16, 13, 0, 0, 0, zone)

	_, args, err := overlappingQuery(7, start, start.Add(time.Hour), nil, false).ToSql()
	require.NoError(t, err)
	require.Len(t, args, 4)
	assert.Equal(t, time.UTC, args[2].(time.Time).Location())
	assert.Equal(t, time.UTC, args[3].(time.Time).Location())
}

func TestCourtBookingsQuery(t *testing.T) {
	from := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	confirmed := domain.StatusConfirmed

	tests := []struct {
		name      string
		filter    domain.CourtBookingsFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "active bookings of a day",
			filter:    domain.CourtBookingsFilter{CourtID: 7, From: &from, To: &to},
			wantWhere: "WHERE court_id = $1 AND end_time > $2 AND start_time < $3 AND status NOT IN ($4) ORDER BY start_time ASC",
			wantArgs:  []interface{}{int64(7), from, to, "cancelled"},
		},
		{
			name:      "explicit status",
			filter:    domain.CourtBookingsFilter{CourtID: 7, Status: &confirmed},
			wantWhere: "WHERE court_id = $1 AND status = $2 ORDER BY start_time ASC",
			wantArgs:  []interface{}{int64(7), "confirmed"},
		},
		{
			name:      "including cancelled",
			filter:    domain.CourtBookingsFilter{CourtID: 7, IncludeCancelled: true},
			wantWhere: "WHERE court_id = $1 ORDER BY start_time ASC",
			wantArgs:  []interface{}{int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := courtBookingsQuery(tt.filter).ToSql()
			require.NoError(t, err)

			assert.True(t, strings.HasSuffix(query, "FROM bookings "+tt.wantWhere), query)
			assert.NotContains(t, query, "FOR UPDATE")
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
