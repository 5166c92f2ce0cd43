package srv

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	startErr  error
	block     bool
	stop      chan struct{}
	shutdowns atomic.Int32
}

func newFakeService() *fakeService {
	return &fakeService{stop: make(chan struct{})}
}

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-s.stop
	}
	return s.startErr
}

func (s *fakeService) Shutdown(ctx context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stop)
	}
	return nil
}

func TestRun_ReturnsStartResult(t *testing.T) {
	s := newFakeService()
	assert.NoError(t, Run(context.Background(), s))
	assert.Equal(t, int32(1), s.shutdowns.Load())

	failing := newFakeService()
	failing.startErr = errors.New("boom")
	assert.EqualError(t, Run(context.Background(), failing), "boom")
	assert.Equal(t, int32(1), failing.shutdowns.Load())
}

func TestRun_CancelShutsDownBlockedService(t *testing.T) {
	s := newFakeService()
	s.block = true

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), s.shutdowns.Load())
}
