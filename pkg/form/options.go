package form

import (
	"log/slog"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// EditPolicy controls what happens to a field's error when its value changes.
type EditPolicy int

const (
	// EditPolicyClear drops the field's error and waits for the next full
	// validation pass.
	EditPolicyClear EditPolicy = iota
	// EditPolicyRevalidate re-runs the rules of the edited field only.
	EditPolicyRevalidate
)

func (p EditPolicy) String() string {
	switch p {
	case EditPolicyRevalidate:
		return "revalidate"
	default:
		return "clear"
	}
}

// ParseEditPolicy maps a config value onto an EditPolicy. Unknown values fall
// back to EditPolicyClear.
func ParseEditPolicy(raw string) EditPolicy {
	if raw == "revalidate" {
		return EditPolicyRevalidate
	}
	return EditPolicyClear
}

// Observer receives lifecycle hooks. Implementations must not call back into
// the Controller.
type Observer interface {
	ValidationFailed(fields []model.FieldName)
	StateChanged(from, to State)
}

type nopObserver struct{}

func (nopObserver) ValidationFailed([]model.FieldName) {}
func (nopObserver) StateChanged(State, State)          {}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEditPolicy selects the error handling applied on field edits.
func WithEditPolicy(policy EditPolicy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// WithObserver registers lifecycle hooks, typically metrics collectors.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}
