package render

// RenderOptions carry per-request data that renderers use to fill in the
// registration layout.
type RenderOptions struct {
	// Values pre-populates controls keyed by field wire name. Secret fields
	// are never echoed back.
	Values map[string]string
	// Checked holds boolean fields that render as checked.
	Checked map[string]bool
	// Errors surfaces inline messages keyed by field wire name.
	Errors map[string]string
	// FormErrors are shown above the form, for example a failed submission.
	FormErrors []string
	// Hidden adds hidden inputs such as the CSRF token.
	Hidden []HiddenField
	// Busy disables the submit button and shows the busy label.
	Busy bool
	// StatusURL and EventsURL let the page follow an in-flight submission.
	StatusURL string
	EventsURL string
}
