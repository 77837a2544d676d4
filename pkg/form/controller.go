package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/looplab/fsm"

	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/submission"
	"github.com/goliatone/go-onboarding/pkg/validation"
)

var (
	// ErrInvalid is returned by Submit when the validation pass found errors.
	ErrInvalid = errors.New("form: validation failed")
	// ErrSubmitInFlight is returned by Submit while a submission is pending.
	ErrSubmitInFlight = errors.New("form: submission already in flight")
	// ErrCompleted is returned by Submit once the form has succeeded.
	ErrCompleted = errors.New("form: submission already completed")
	// ErrServicePanic wraps a panic raised by the submission service.
	ErrServicePanic = errors.New("form: submission service panicked")
	// ErrNoService is the failure reason when no service was configured.
	ErrNoService = errors.New("form: no submission service configured")

	// ErrUnknownField is returned when setting a field outside the registration form.
	ErrUnknownField = model.ErrUnknownField
	// ErrFieldType is returned when a value has the wrong type for its field.
	ErrFieldType = model.ErrFieldType
)

// View is a consistent copy of the controller state. Version increases with
// every change so subscribers can discard stale notifications.
type View struct {
	Fields  model.Fields
	Errors  validation.Errors
	State   State
	Failure error
	Version uint64
}

// Busy reports whether a submission is in flight.
func (v View) Busy() bool {
	return v.State == StateSubmitting
}

// FailureMessage returns the failure reason as text, or "" when none.
func (v View) FailureMessage() string {
	if v.Failure == nil {
		return ""
	}
	return v.Failure.Error()
}

// Controller owns the field values, field errors and submission state of one
// form session. All methods are safe for concurrent use.
type Controller struct {
	service  submission.Service
	logger   *slog.Logger
	policy   EditPolicy
	observer Observer

	mu          sync.Mutex
	fields      model.Fields
	errors      validation.Errors
	machine     *fsm.FSM
	failure     error
	done        chan struct{}
	version     uint64
	subscribers map[int]func(View)
	nextSub     int
}

// New returns a Controller in the Idle state with every field at its zero
// value.
func New(service submission.Service, opts ...Option) *Controller {
	done := make(chan struct{})
	close(done)

	c := &Controller{
		service:     service,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy:      EditPolicyClear,
		observer:    nopObserver{},
		errors:      validation.Errors{},
		done:        done,
		subscribers: make(map[int]func(View)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.machine = newMachine(c.onEnter)
	return c
}

// SetField writes value into the named field and updates its error according
// to the edit policy. Errors are returned only for names outside the field set
// or values of the wrong Go type; in that case nothing changes.
func (c *Controller) SetField(name model.FieldName, value any) error {
	c.mu.Lock()
	if err := c.fields.Set(name, value); err != nil {
		c.mu.Unlock()
		return err
	}
	switch c.policy {
	case EditPolicyRevalidate:
		if message, ok := validation.ValidateField(c.fields, name); ok {
			delete(c.errors, name)
		} else {
			c.errors[name] = message
		}
	default:
		delete(c.errors, name)
	}
	view, subs := c.changedLocked()
	c.mu.Unlock()

	c.notify(view, subs)
	return nil
}

// SetText writes a text, secret or choice field from its string form.
func (c *Controller) SetText(name model.FieldName, value string) error {
	return c.SetField(name, value)
}

// SetAgreement writes the terms agreement.
func (c *Controller) SetAgreement(agreed bool) error {
	return c.SetField(model.FieldAgreeToTerms, agreed)
}

// Validate runs a full validation pass over the current fields. It does not
// change the stored errors.
func (c *Controller) Validate() validation.Errors {
	c.mu.Lock()
	fields := c.fields
	c.mu.Unlock()
	return validation.Validate(fields)
}

// Submit validates the form and, when valid, hands a snapshot to the
// submission service on a separate goroutine. The service call keeps the
// values of ctx but not its cancellation.
func (c *Controller) Submit(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	state := c.stateLocked()
	switch state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StateSucceeded:
		c.mu.Unlock()
		return ErrCompleted
	}

	errs := validation.Validate(c.fields)
	if len(errs) > 0 {
		c.errors = errs
		view, subs := c.changedLocked()
		c.mu.Unlock()

		c.logger.Debug("registration invalid", "fields", len(errs), "state", state)
		c.observer.ValidationFailed(errs.Fields())
		c.notify(view, subs)
		return ErrInvalid
	}

	detached := context.WithoutCancel(ctx)
	if err := c.machine.Event(detached, eventSubmit); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("form: submit: %w", err)
	}
	c.errors = validation.Errors{}
	c.failure = nil
	done := make(chan struct{})
	c.done = done
	snapshot := c.fields.Snapshot()
	view, subs := c.changedLocked()
	c.mu.Unlock()

	c.notify(view, subs)
	go c.resolve(detached, snapshot, done)
	return nil
}

func (c *Controller) resolve(ctx context.Context, snapshot model.Snapshot, done chan struct{}) {
	err := c.invoke(ctx, snapshot)

	event := eventResolveOK
	if err != nil {
		event = eventResolveErr
	}

	c.mu.Lock()
	c.failure = err
	if ferr := c.machine.Event(ctx, event); ferr != nil {
		c.logger.Error("registration state transition failed", "event", event, "error", ferr)
	}
	close(done)
	view, subs := c.changedLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("registration submission failed", "error", err)
	} else {
		c.logger.Info("registration submitted", "snapshot", snapshot)
	}
	c.notify(view, subs)
}

func (c *Controller) invoke(ctx context.Context, snapshot model.Snapshot) (err error) {
	if c.service == nil {
		return ErrNoService
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrServicePanic, r)
		}
	}()
	return c.service.Submit(ctx, snapshot)
}

func (c *Controller) onEnter(_ context.Context, from, to State) {
	c.logger.Debug("registration state changed", "from", from, "to", to)
	c.observer.StateChanged(from, to)
}

// Fields returns a copy of the current field values.
func (c *Controller) Fields() model.Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Errors returns a copy of the stored field errors.
func (c *Controller) Errors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// State returns the current submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Failure returns the reason of the last failed submission, or nil.
func (c *Controller) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// View returns a consistent copy of fields, errors, state and failure.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Done returns a channel closed when the current submission resolves. When
// nothing is in flight the channel is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Wait blocks until no submission is in flight or ctx is done.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		state := c.stateLocked()
		done := c.done
		c.mu.Unlock()

		if state != StateSubmitting {
			return state, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Subscribe registers fn for change notifications. Notifications are
// delivered outside the controller lock; compare View.Version to order them.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(View)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

func (c *Controller) stateLocked() State {
	return State(c.machine.Current())
}

func (c *Controller) viewLocked() View {
	return View{
		Fields:  c.fields,
		Errors:  c.errors.Clone(),
		State:   c.stateLocked(),
		Failure: c.failure,
		Version: c.version,
	}
}

func (c *Controller) changedLocked() (View, []func(View)) {
	c.version++
	if len(c.subscribers) == 0 {
		return View{}, nil
	}
	subs := make([]func(View), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return c.viewLocked(), subs
}

func (c *Controller) notify(view View, subs []func(View)) {
	for _, fn := range subs {
		fn(view)
	}
}
