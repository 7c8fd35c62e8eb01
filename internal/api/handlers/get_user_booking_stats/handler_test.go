package get_user_booking_stats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetBookingStats(_ context.Context, userID int64) (*models.BookingStatsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingStatsResponse{
		UserID:           userID,
		ConfirmedCounter: ptr.Ptr(int64(2)),
		ConfirmedTotal:   2,
		ByStatus:         map[string]int64{"confirmed": 2},
	}, nil
}

func doRequest(svc *fakeService, pathUser string, authUser int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+pathUser+"/bookings/stats", nil)
	req = mux.SetURLVars(req, map[string]string{"userId": pathUser})
	if authUser != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), authUser))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	rec := doRequest(&fakeService{}, "3", 3)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"userId":3,"confirmedCounter":2,"confirmedTotal":2,"byStatus":{"confirmed":2},"counterResynced":false}`,
		rec.Body.String())

	assert.Equal(t, http.StatusForbidden, doRequest(&fakeService{}, "4", 3).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(&fakeService{}, "3", 0).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(&fakeService{}, "-1", 3).Code)
	assert.Equal(t, http.StatusInternalServerError, doRequest(&fakeService{err: errors.New("db")}, "3", 3).Code)
}
