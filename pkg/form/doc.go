// Package form implements the registration form controller. A Controller
// holds the field values and field errors of one session and drives the
// submission lifecycle Idle -> Submitting -> Succeeded | Failed, delegating
// delivery to a submission.Service on its own goroutine.
//
// Edits clear the edited field's error; the next Submit re-validates every
// field. Submit is rejected with ErrSubmitInFlight while a submission is
// pending, so a second service call can never overlap the first.
package form
