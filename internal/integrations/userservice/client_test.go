package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/users/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "name": "Ann", "email": "ann@example.com"}`))
	})
	mux.HandleFunc("/internal/users/2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 2, "is_blocked": true}`))
	})
	mux.HandleFunc("/internal/users/3", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})
	mux.HandleFunc("/internal/users/4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetUser(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL+"/", time.Second, logger.Nop())

	user, err := client.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Ann", user.Name)

	_, err = client.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = client.GetUser(context.Background(), 2)
	assert.ErrorIs(t, err, ErrUserBlocked)

	_, err = client.GetUser(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	_, err = client.GetUser(context.Background(), 4)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GracefulDegradation(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL, time.Second, logger.Nop())
	ctx := context.Background()

	_, err := client.GetUserWithGracefulDegradation(ctx, 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrServiceDegraded)

	_, err = client.GetUserWithGracefulDegradation(ctx, 3)
	assert.ErrorIs(t, err, ErrServiceDegraded)

	down := NewClient("http://127.0.0.1:1", 100*time.Millisecond, logger.Nop())
	_, err = down.GetUserWithGracefulDegradation(ctx, 1)
	assert.ErrorIs(t, err, ErrServiceDegraded)
}
