package model

import "errors"

// FieldKind is the simplified enum for form-friendly field kinds.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindSecret  FieldKind = "secret"
	FieldKindChoice  FieldKind = "choice"
	FieldKindBoolean FieldKind = "boolean"
)

// FieldName identifies one member of the fixed registration field set. The
// string value doubles as the wire name used by HTML inputs and JSON payloads.
type FieldName string

const (
	FieldServiceProviderName  FieldName = "serviceProviderName"
	FieldPrimaryContactName   FieldName = "primaryContactName"
	FieldContactNumber        FieldName = "contactNumber"
	FieldAddress              FieldName = "address"
	FieldState                FieldName = "state"
	FieldPostcode             FieldName = "postcode"
	FieldABN                  FieldName = "abn"
	FieldNumberOfParticipants FieldName = "numberOfParticipants"
	FieldEmailAddress         FieldName = "emailAddress"
	FieldPassword             FieldName = "password"
	FieldConfirmPassword      FieldName = "confirmPassword"
	FieldAgreeToTerms         FieldName = "agreeToTerms"
)

var (
	// ErrUnknownField is returned when a name outside the fixed field set is
	// written.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrFieldType is returned when a value does not match the field's kind.
	ErrFieldType = errors.New("model: value type does not match field")
)

var fieldOrder = []FieldName{
	FieldServiceProviderName,
	FieldPrimaryContactName,
	FieldContactNumber,
	FieldAddress,
	FieldState,
	FieldPostcode,
	FieldABN,
	FieldNumberOfParticipants,
	FieldEmailAddress,
	FieldPassword,
	FieldConfirmPassword,
	FieldAgreeToTerms,
}

var fieldKinds = map[FieldName]FieldKind{
	FieldServiceProviderName:  FieldKindText,
	FieldPrimaryContactName:   FieldKindText,
	FieldContactNumber:        FieldKindText,
	FieldAddress:              FieldKindText,
	FieldState:                FieldKindChoice,
	FieldPostcode:             FieldKindText,
	FieldABN:                  FieldKindText,
	FieldNumberOfParticipants: FieldKindChoice,
	FieldEmailAddress:         FieldKindText,
	FieldPassword:             FieldKindSecret,
	FieldConfirmPassword:      FieldKindSecret,
	FieldAgreeToTerms:         FieldKindBoolean,
}

// AllFields returns every field name in declaration order. The slice is a
// copy and may be modified by the caller.
func AllFields() []FieldName {
	out := make([]FieldName, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseFieldName resolves a wire name into a FieldName.
func ParseFieldName(raw string) (FieldName, bool) {
	name := FieldName(raw)
	return name, name.Valid()
}

// Valid reports whether the name belongs to the fixed field set.
func (n FieldName) Valid() bool {
	_, ok := fieldKinds[n]
	return ok
}

// Kind reports the field kind, or an empty kind for unknown names.
func (n FieldName) Kind() FieldKind {
	return fieldKinds[n]
}

// Index reports the declaration position of the field, -1 when unknown.
func (n FieldName) Index() int {
	for i, name := range fieldOrder {
		if name == n {
			return i
		}
	}
	return -1
}

func (n FieldName) String() string {
	return string(n)
}
