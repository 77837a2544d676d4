package components

import "github.com/goliatone/go-onboarding/pkg/model"

// Built-in component names.
const (
	NameInput    = "input"
	NameSelect   = "select"
	NameCheckbox = "checkbox"
)

// NameFor picks the built-in component for a field kind.
func NameFor(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindChoice:
		return NameSelect
	case model.FieldKindBoolean:
		return NameCheckbox
	default:
		return NameInput
	}
}
