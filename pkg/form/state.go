package form

import (
	"context"

	"github.com/looplab/fsm"
)

// State is the submission lifecycle of a form session.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transition is defined from s.
func (s State) Terminal() bool {
	return s == StateSucceeded
}

func (s State) String() string {
	return string(s)
}

const (
	eventSubmit     = "submit"
	eventResolveOK  = "resolve_ok"
	eventResolveErr = "resolve_err"
)

// newMachine builds the submission state machine. Invalid submissions never
// fire an event, so Idle and Failed keep their state on validation failure.
func newMachine(onEnter func(ctx context.Context, from, to State)) *fsm.FSM {
	return fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventSubmit, Src: []string{string(StateIdle), string(StateFailed)}, Dst: string(StateSubmitting)},
			{Name: eventResolveOK, Src: []string{string(StateSubmitting)}, Dst: string(StateSucceeded)},
			{Name: eventResolveErr, Src: []string{string(StateSubmitting)}, Dst: string(StateFailed)},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				if onEnter != nil {
					onEnter(ctx, State(e.Src), State(e.Dst))
				}
			},
		},
	)
}
