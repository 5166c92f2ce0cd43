package srv

import (
	"context"
	"time"

	"github.com/sandevgo/dazi/pkg/log"
)

// ShutdownGrace bounds how long Run waits for Start to return after shutdown.
var ShutdownGrace = 2 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts the service in the foreground and shuts it down once Start
// returns or ctx is cancelled, whichever comes first. The Start error, or the
// context error on cancellation, is returned.
func Run(ctx context.Context, service Service) error {
	logger := log.FromCtx(ctx)

	done := make(chan error, 1)
	go func() {
		done <- service.Start(ctx)
	}()

	var err error
	finished := false
	select {
	case err = <-done:
		finished = true
	case <-ctx.Done():
		err = ctx.Err()
	}

	if sErr := service.Shutdown(context.WithoutCancel(ctx)); sErr != nil {
		logger.Error().Err(sErr).Msgf("%T failed to shutdown", service)
	}

	if !finished {
		select {
		case <-done:
		case <-time.After(ShutdownGrace):
			logger.Warn().Msgf("%T did not stop in time", service)
		}
	}
	return err
}
