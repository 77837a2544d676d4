package submission

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// DefaultSimulatedDelay matches the latency of the hosted sign-up flow.
const DefaultSimulatedDelay = 2 * time.Second

// Simulated pretends to create an account: it waits Delay and then succeeds.
// A non-nil Result makes every attempt fail with that error instead.
type Simulated struct {
	Delay  time.Duration
	Result error
	Logger *slog.Logger
}

// NewSimulated returns a Simulated backend using DefaultSimulatedDelay.
func NewSimulated(logger *slog.Logger) *Simulated {
	return &Simulated{Delay: DefaultSimulatedDelay, Logger: logger}
}

// Submit waits for the configured delay or until ctx is done.
func (s *Simulated) Submit(ctx context.Context, snapshot model.Snapshot) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Info("simulated registration attempt", "snapshot", snapshot)

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Result
}
