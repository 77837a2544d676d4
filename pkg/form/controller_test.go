package form_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/submission"
	"github.com/goliatone/go-onboarding/pkg/validation"
)

// gatedService blocks every call until release is closed and records the
// snapshots it received.
type gatedService struct {
	release chan struct{}
	result  error

	mu        sync.Mutex
	snapshots []model.Snapshot
	started   chan struct{}
}

func newGatedService(result error) *gatedService {
	return &gatedService{
		release: make(chan struct{}),
		started: make(chan struct{}, 16),
		result:  result,
	}
}

func (s *gatedService) Submit(ctx context.Context, snapshot model.Snapshot) error {
	s.mu.Lock()
	s.snapshots = append(s.snapshots, snapshot)
	s.mu.Unlock()
	s.started <- struct{}{}
	<-s.release
	return s.result
}

func (s *gatedService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

type recordingObserver struct {
	mu          sync.Mutex
	failures    [][]model.FieldName
	transitions [][2]form.State
}

func (o *recordingObserver) ValidationFailed(fields []model.FieldName) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, fields)
}

func (o *recordingObserver) StateChanged(from, to form.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, [2]form.State{from, to})
}

func fillValid(t *testing.T, c *form.Controller) {
	t.Helper()
	values := map[model.FieldName]string{
		model.FieldServiceProviderName:  "Acme Care",
		model.FieldPrimaryContactName:   "Jo Bloggs",
		model.FieldContactNumber:        "0400 000 000",
		model.FieldAddress:              "1 Example St",
		model.FieldState:                "QLD",
		model.FieldPostcode:             "4000",
		model.FieldABN:                  "12345678901",
		model.FieldNumberOfParticipants: "51-100",
		model.FieldEmailAddress:         "admin@acme.test",
		model.FieldPassword:             "longenough1",
		model.FieldConfirmPassword:      "longenough1",
	}
	for name, value := range values {
		if err := c.SetText(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if err := c.SetAgreement(true); err != nil {
		t.Fatalf("set agreement: %v", err)
	}
}

func waitState(t *testing.T, c *form.Controller) form.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	state, err := c.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return state
}

func TestController_InitialState(t *testing.T) {
	c := form.New(nil)

	view := c.View()
	if view.State != form.StateIdle {
		t.Fatalf("expected idle, got %s", view.State)
	}
	if diff := cmp.Diff(model.Fields{}, view.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if len(view.Errors) != 0 || view.Failure != nil {
		t.Fatalf("expected no errors or failure, got %v / %v", view.Errors, view.Failure)
	}
	select {
	case <-c.Done():
	default:
		t.Fatalf("expected Done to be closed when idle")
	}
}

func TestController_InvalidSubmitKeepsState(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*form.Controller) error
		field  model.FieldName
		msg    string
	}{
		{
			name:   "malformed email",
			mutate: func(c *form.Controller) error { return c.SetText(model.FieldEmailAddress, "not-an-email") },
			field:  model.FieldEmailAddress,
			msg:    validation.MessageEmailFormat,
		},
		{
			name:   "terms not accepted",
			mutate: func(c *form.Controller) error { return c.SetAgreement(false) },
			field:  model.FieldAgreeToTerms,
			msg:    validation.MessageTermsRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newGatedService(nil)
			observer := &recordingObserver{}
			c := form.New(service, form.WithObserver(observer))
			fillValid(t, c)
			if err := tt.mutate(c); err != nil {
				t.Fatalf("mutate: %v", err)
			}

			err := c.Submit(context.Background())
			if !errors.Is(err, form.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if c.State() != form.StateIdle {
				t.Fatalf("expected idle, got %s", c.State())
			}
			if diff := cmp.Diff(validation.Errors{tt.field: tt.msg}, c.Errors()); diff != "" {
				t.Fatalf("errors mismatch (-want +got):\n%s", diff)
			}
			if service.calls() != 0 {
				t.Fatalf("service must not be invoked, got %d calls", service.calls())
			}
			if diff := cmp.Diff([][]model.FieldName{{tt.field}}, observer.failures); diff != "" {
				t.Fatalf("observer failures mismatch (-want +got):\n%s", diff)
			}
			if len(observer.transitions) != 0 {
				t.Fatalf("expected no transitions, got %v", observer.transitions)
			}
		})
	}
}

func TestController_EmptyRequiredFieldReportsOnce(t *testing.T) {
	c := form.New(newGatedService(nil))
	fillValid(t, c)
	if err := c.SetText(model.FieldPostcode, "   "); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if diff := cmp.Diff(validation.Errors{model.FieldPostcode: validation.MessagePostcodeRequired}, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestController_EditClearsError(t *testing.T) {
	c := form.New(newGatedService(nil))
	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !c.Errors().Has(model.FieldABN) {
		t.Fatalf("expected abn error before edit")
	}

	// Still invalid, but the error is cleared until the next full pass.
	if err := c.SetText(model.FieldABN, "123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	errs := c.Errors()
	if errs.Has(model.FieldABN) {
		t.Fatalf("expected abn error cleared on edit")
	}
	if !errs.Has(model.FieldAddress) {
		t.Fatalf("edit must not clear other fields")
	}

	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := c.Errors()[model.FieldABN]; got != validation.MessageABNFormat {
		t.Fatalf("expected abn format error after resubmit, got %q", got)
	}
}

func TestController_RevalidatePolicy(t *testing.T) {
	c := form.New(newGatedService(nil), form.WithEditPolicy(form.EditPolicyRevalidate))

	if err := c.SetText(model.FieldABN, "123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff(validation.Errors{model.FieldABN: validation.MessageABNFormat}, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if err := c.SetText(model.FieldABN, "123 456 789 01"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected errors cleared, got %v", c.Errors())
	}
}

func TestController_ValidateIsPure(t *testing.T) {
	c := form.New(nil)
	first := c.Validate()
	second := c.Validate()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("validate not idempotent (-first +second):\n%s", diff)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("validate must not store errors, got %v", c.Errors())
	}
	if c.State() != form.StateIdle {
		t.Fatalf("validate must not change state")
	}
}

func TestController_SubmitRoundTrip(t *testing.T) {
	service := newGatedService(nil)
	observer := &recordingObserver{}
	c := form.New(service, form.WithObserver(observer))
	fillValid(t, c)
	want := c.Fields().Snapshot()

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-service.started
	if c.State() != form.StateSubmitting {
		t.Fatalf("expected submitting, got %s", c.State())
	}
	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(service.release)
	if state := waitState(t, c); state != form.StateSucceeded {
		t.Fatalf("expected succeeded, got %s", state)
	}
	if service.calls() != 1 {
		t.Fatalf("expected exactly one service call, got %d", service.calls())
	}
	if diff := cmp.Diff(want, service.snapshots[0]); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	wantTransitions := [][2]form.State{
		{form.StateIdle, form.StateSubmitting},
		{form.StateSubmitting, form.StateSucceeded},
	}
	if diff := cmp.Diff(wantTransitions, observer.transitions); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ConcurrentSubmitCallsServiceOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	service := submission.Func(func(ctx context.Context, _ model.Snapshot) error {
		calls.Add(1)
		<-release
		return nil
	})
	c := form.New(service)
	fillValid(t, c)

	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Submit(context.Background()); err == nil {
				accepted.Add(1)
			} else if !errors.Is(err, form.ErrSubmitInFlight) && !errors.Is(err, form.ErrCompleted) {
				t.Errorf("unexpected submit error: %v", err)
			}
		}()
	}
	wg.Wait()
	close(release)
	waitState(t, c)

	if accepted.Load() != 1 {
		t.Fatalf("expected one accepted submit, got %d", accepted.Load())
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one service call, got %d", calls.Load())
	}
}

func TestController_FailedThenResubmit(t *testing.T) {
	boom := errors.New("backend unavailable")
	var attempts atomic.Int32
	service := submission.Func(func(ctx context.Context, _ model.Snapshot) error {
		if attempts.Add(1) == 1 {
			return boom
		}
		return nil
	})
	c := form.New(service)
	fillValid(t, c)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if state := waitState(t, c); state != form.StateFailed {
		t.Fatalf("expected failed, got %s", state)
	}
	if !errors.Is(c.Failure(), boom) {
		t.Fatalf("expected failure reason to be kept, got %v", c.Failure())
	}
	if c.View().FailureMessage() != boom.Error() {
		t.Fatalf("unexpected failure message %q", c.View().FailureMessage())
	}

	// Invalid resubmit from Failed stays Failed.
	if err := c.SetAgreement(false); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Submit(context.Background()); !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if c.State() != form.StateFailed {
		t.Fatalf("expected failed to persist, got %s", c.State())
	}

	if err := c.SetAgreement(true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if state := waitState(t, c); state != form.StateSucceeded {
		t.Fatalf("expected succeeded, got %s", state)
	}
	if c.Failure() != nil {
		t.Fatalf("expected failure cleared, got %v", c.Failure())
	}
	if attempts.Load() != 2 {
		t.Fatalf("expected two attempts, got %d", attempts.Load())
	}
}

func TestController_PanicBecomesFailed(t *testing.T) {
	c := form.New(submission.Func(func(context.Context, model.Snapshot) error {
		panic("kaboom")
	}))
	fillValid(t, c)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if state := waitState(t, c); state != form.StateFailed {
		t.Fatalf("expected failed, got %s", state)
	}
	if !errors.Is(c.Failure(), form.ErrServicePanic) {
		t.Fatalf("expected ErrServicePanic, got %v", c.Failure())
	}
}

func TestController_NilServiceFails(t *testing.T) {
	c := form.New(nil)
	fillValid(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if state := waitState(t, c); state != form.StateFailed {
		t.Fatalf("expected failed, got %s", state)
	}
	if !errors.Is(c.Failure(), form.ErrNoService) {
		t.Fatalf("expected ErrNoService, got %v", c.Failure())
	}
}

func TestController_SubmitDetachesCancellation(t *testing.T) {
	type key struct{}
	seen := make(chan error, 1)
	values := make(chan any, 1)
	release := make(chan struct{})
	c := form.New(submission.Func(func(ctx context.Context, _ model.Snapshot) error {
		<-release
		seen <- ctx.Err()
		values <- ctx.Value(key{})
		return nil
	}))
	fillValid(t, c)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "req-1"))
	if err := c.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	cancel()
	close(release)

	if err := <-seen; err != nil {
		t.Fatalf("service context must not inherit cancellation, got %v", err)
	}
	if v := <-values; v != "req-1" {
		t.Fatalf("service context must keep values, got %v", v)
	}
	if state := waitState(t, c); state != form.StateSucceeded {
		t.Fatalf("expected succeeded, got %s", state)
	}
}

func TestController_WaitHonoursContext(t *testing.T) {
	service := newGatedService(nil)
	c := form.New(service)
	fillValid(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer close(service.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	state, err := c.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if state != form.StateSubmitting {
		t.Fatalf("expected submitting, got %s", state)
	}
}

func TestController_SetFieldMisuse(t *testing.T) {
	c := form.New(nil)
	if err := c.SetField("nickname", "x"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := c.SetField(model.FieldPassword, 42); !errors.Is(err, form.ErrFieldType) {
		t.Fatalf("expected ErrFieldType, got %v", err)
	}
	if diff := cmp.Diff(model.Fields{}, c.Fields()); diff != "" {
		t.Fatalf("misuse must not change fields (-want +got):\n%s", diff)
	}
}

func TestController_Subscribe(t *testing.T) {
	service := newGatedService(nil)
	c := form.New(service)

	var (
		mu     sync.Mutex
		states []form.State
		last   uint64
	)
	cancel := c.Subscribe(func(v form.View) {
		mu.Lock()
		defer mu.Unlock()
		if v.Version > last {
			last = v.Version
		}
		states = append(states, v.State)
	})

	fillValid(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	close(service.release)
	waitState(t, c)
	<-c.Done()

	// Twelve edits, the submit transition and the resolution.
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(states)
		mu.Unlock()
		if n >= 14 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	if len(states) != 14 {
		mu.Unlock()
		t.Fatalf("expected 14 notifications, got %d", len(states))
	}
	if last != c.View().Version {
		mu.Unlock()
		t.Fatalf("expected last version %d, got %d", c.View().Version, last)
	}
	mu.Unlock()

	cancel()
	cancel()
	before := c.View().Version
	if err := c.SetText(model.FieldAddress, "2 Example St"); err != nil {
		t.Fatalf("set: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(states) != 14 {
		t.Fatalf("unsubscribed callback still invoked")
	}
	if c.View().Version != before+1 {
		t.Fatalf("expected version to advance")
	}
}
