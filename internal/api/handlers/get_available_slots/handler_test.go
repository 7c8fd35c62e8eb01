package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type fakeUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func doRequest(h *Handler, courtID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts/"+courtID+"/available-slots"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"courtId": courtID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	slot := func(h int, available bool) domain.Slot {
		start := day.Add(time.Duration(h) * time.Hour)
		return domain.Slot{
			Time:      types.NewTimeString(start).String(),
			Start:     start,
			End:       start.Add(time.Hour),
			Available: available,
			Price:     decimal.NewFromInt(40),
		}
	}
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:           day,
		CourtID:        7,
		AllSlots:       []domain.Slot{slot(9, true), slot(10, false), slot(11, true)},
		AvailableSlots: []domain.Slot{slot(9, true), slot(11, true)},
		OperatingHours: &domain.OperatingHours{Open: types.MustTimeString("09:00"), Close: types.MustTimeString("12:00")},
		PricePerHour:   decimal.NewFromInt(40),
	}}

	rec := doRequest(NewHandler(uc, logger.Nop()), "7", "?date=2025-06-16")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uc.got.CourtID)
	assert.Equal(t, day, uc.got.Date)

	var resp struct {
		Date           string         `json:"date"`
		CourtID        int64          `json:"courtId"`
		AvailableSlots []SlotResponse `json:"availableSlots"`
		AllSlots       []SlotResponse `json:"allSlots"`
		OperatingHours struct {
			Open  string `json:"open"`
			Close string `json:"close"`
		} `json:"operatingHours"`
		PricePerHour string `json:"pricePerHour"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "2025-06-16", resp.Date)
	require.Len(t, resp.AvailableSlots, 2)
	assert.Equal(t, "11:00", resp.AvailableSlots[1].Time)
	assert.Equal(t, "2025-06-16T11:00:00Z", resp.AvailableSlots[1].StartTime)
	assert.Equal(t, "40.00", resp.AvailableSlots[1].Price)
	require.Len(t, resp.AllSlots, 3)
	assert.False(t, resp.AllSlots[1].Available)
	assert.Equal(t, "09:00", resp.OperatingHours.Open)
	assert.Equal(t, "40.00", resp.PricePerHour)
}

func TestHandle_ClosedDay(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		Date:           time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
		CourtID:        7,
		AllSlots:       []domain.Slot{},
		AvailableSlots: []domain.Slot{},
		PricePerHour:   decimal.NewFromInt(40),
	}}

	rec := doRequest(NewHandler(uc, logger.Nop()), "7", "?date=2025-06-17")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"availableSlots":[]`)
	assert.Contains(t, rec.Body.String(), `"operatingHours":null`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		courtID    string
		query      string
		ucErr      error
		wantStatus int
	}{
		{"bad court id", "abc", "?date=2025-06-16", nil, http.StatusBadRequest},
		{"missing date", "7", "", nil, http.StatusBadRequest},
		{"bad date", "7", "?date=16.06.2025", nil, http.StatusBadRequest},
		{"court not found", "7", "?date=2025-06-16", getAvailableSlots.ErrCourtNotFound, http.StatusNotFound},
		{"internal", "7", "?date=2025-06-16", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(NewHandler(&fakeUseCase{err: tt.ucErr}, logger.Nop()), tt.courtID, tt.query)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
