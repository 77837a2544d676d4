package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// Outcome labels reported to a Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeTimeout = "timeout"
)

// TracerName is the instrumentation scope used by WithTracing.
const TracerName = "github.com/goliatone/go-onboarding/pkg/submission"

// Recorder observes the outcome and latency of each submission.
type Recorder interface {
	ObserveSubmission(outcome string, duration time.Duration)
}

// WithTimeout bounds every submission by d. A zero or negative d disables
// the bound.
func WithTimeout(d time.Duration) Middleware {
	return func(next Service) Service {
		if d <= 0 {
			return next
		}
		return Func(func(ctx context.Context, snapshot model.Snapshot) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			if err := next.Submit(ctx, snapshot); err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("submission: timed out after %s: %w", d, err)
				}
				return err
			}
			return nil
		})
	}
}

// WithLogging logs each attempt with a redacted snapshot and its result.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next Service) Service {
		if logger == nil {
			return next
		}
		return Func(func(ctx context.Context, snapshot model.Snapshot) error {
			start := time.Now()
			logger.DebugContext(ctx, "submission started", "snapshot", snapshot)
			err := next.Submit(ctx, snapshot)
			if err != nil {
				logger.WarnContext(ctx, "submission failed",
					"duration", time.Since(start),
					"error", err,
				)
				return err
			}
			logger.InfoContext(ctx, "submission accepted",
				"duration", time.Since(start),
				"email", snapshot.EmailAddress,
			)
			return nil
		})
	}
}

// WithMetrics reports outcome and latency to recorder.
func WithMetrics(recorder Recorder) Middleware {
	return func(next Service) Service {
		if recorder == nil {
			return next
		}
		return Func(func(ctx context.Context, snapshot model.Snapshot) error {
			start := time.Now()
			err := next.Submit(ctx, snapshot)
			recorder.ObserveSubmission(outcomeOf(err), time.Since(start))
			return err
		})
	}
}

// WithTracing wraps each submission in a span. A nil provider uses the global
// OpenTelemetry tracer provider.
func WithTracing(provider trace.TracerProvider) Middleware {
	return func(next Service) Service {
		if provider == nil {
			provider = otel.GetTracerProvider()
		}
		tracer := provider.Tracer(TracerName)
		return Func(func(ctx context.Context, snapshot model.Snapshot) error {
			ctx, span := tracer.Start(ctx, "onboarding.submit",
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("onboarding.state", string(snapshot.State)),
					attribute.String("onboarding.participants", string(snapshot.NumberOfParticipants)),
				),
			)
			defer span.End()

			err := next.Submit(ctx, snapshot)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			span.SetStatus(codes.Ok, "")
			return nil
		})
	}
}

// WithPrecheck rejects a snapshot before delivery when check returns an
// error. The backend is not contacted in that case.
func WithPrecheck(check func(model.Snapshot) error) Middleware {
	return func(next Service) Service {
		if check == nil {
			return next
		}
		return Func(func(ctx context.Context, snapshot model.Snapshot) error {
			if err := check(snapshot); err != nil {
				return fmt.Errorf("submission: precheck: %w", err)
			}
			return next.Submit(ctx, snapshot)
		})
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	default:
		return OutcomeFailure
	}
}
