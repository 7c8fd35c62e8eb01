package complete_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Complete(_ context.Context, bookingID int64, userID int64) (*models.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, UserID: userID, Status: "completed"}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		userID     int64
		svcErr     error
		wantStatus int
	}{
		{"ok", "5", 3, nil, http.StatusOK},
		{"bad id", "0", 3, nil, http.StatusBadRequest},
		{"no auth", "5", 0, nil, http.StatusUnauthorized},
		{"not found", "5", 3, bookings.ErrBookingNotFound, http.StatusNotFound},
		{"foreign", "5", 3, bookings.ErrAccessDenied, http.StatusForbidden},
		{"invalid transition", "5", 3, bookings.ErrInvalidTransition, http.StatusConflict},
		{"not finished", "5", 3, bookings.ErrNotFinished, http.StatusConflict},
		{"internal", "5", 3, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+tt.bookingID+"/complete", nil)
			req = mux.SetURLVars(req, map[string]string{"bookingId": tt.bookingID})
			if tt.userID != 0 {
				req = req.WithContext(middleware.WithUserID(req.Context(), tt.userID))
			}
			rec := httptest.NewRecorder()

			NewHandler(&fakeService{err: tt.svcErr}, logger.Nop()).Handle(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
