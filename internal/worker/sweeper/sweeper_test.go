package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
)

type fakeService struct {
	calls atomic.Int32
	err   error
}

func (f *fakeService) CompleteExpired(context.Context) (*models.CompleteExpiredResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &models.CompleteExpiredResponse{BookingIDs: []int64{}}, nil
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	svc := &fakeService{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		New(svc, 5*time.Millisecond, logger.Nop()).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return svc.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSweeper_SurvivesErrors(t *testing.T) {
	svc := &fakeService{err: errors.New("db down")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go New(svc, 5*time.Millisecond, logger.Nop()).Run(ctx)

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, time.Millisecond)
}
