package model

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// Fields holds the value of every registration field. The zero value is the
// initial form state: empty strings and an unchecked agreement.
type Fields struct {
	ServiceProviderName  string           `json:"serviceProviderName"`
	PrimaryContactName   string           `json:"primaryContactName"`
	ContactNumber        string           `json:"contactNumber"`
	Address              string           `json:"address"`
	State                Region           `json:"state"`
	Postcode             string           `json:"postcode"`
	ABN                  string           `json:"abn"`
	NumberOfParticipants ParticipantRange `json:"numberOfParticipants"`
	EmailAddress         string           `json:"emailAddress"`
	Password             string           `json:"password"`
	ConfirmPassword      string           `json:"confirmPassword"`
	AgreeToTerms         bool             `json:"agreeToTerms"`
}

// Set writes value into the named field. Text and secret fields accept
// string; choice fields accept their enum type or a raw string; the
// agreement accepts bool. Unknown options are stored as-is and rejected by
// validation, not here.
func (f *Fields) Set(name FieldName, value any) error {
	if f == nil {
		return fmt.Errorf("model: fields are nil")
	}
	switch name.Kind() {
	case FieldKindText, FieldKindSecret:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrFieldType, name, value)
		}
		*f.textField(name) = s
		return nil
	case FieldKindChoice:
		return f.setChoice(name, value)
	case FieldKindBoolean:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects bool, got %T", ErrFieldType, name, value)
		}
		f.AgreeToTerms = b
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(name))
	}
}

func (f *Fields) setChoice(name FieldName, value any) error {
	var raw string
	switch typed := value.(type) {
	case string:
		raw = typed
	case Region:
		if name != FieldState {
			return fmt.Errorf("%w: %s does not accept Region", ErrFieldType, name)
		}
		raw = string(typed)
	case ParticipantRange:
		if name != FieldNumberOfParticipants {
			return fmt.Errorf("%w: %s does not accept ParticipantRange", ErrFieldType, name)
		}
		raw = string(typed)
	default:
		return fmt.Errorf("%w: %s expects string, got %T", ErrFieldType, name, value)
	}

	if name == FieldState {
		f.State = Region(raw)
	} else {
		f.NumberOfParticipants = ParticipantRange(raw)
	}
	return nil
}

// Value returns the current value of the named field and whether the name is
// known. Choice fields are returned as their enum type.
func (f Fields) Value(name FieldName) (any, bool) {
	switch name {
	case FieldState:
		return f.State, true
	case FieldNumberOfParticipants:
		return f.NumberOfParticipants, true
	case FieldAgreeToTerms:
		return f.AgreeToTerms, true
	}
	if !name.Valid() {
		return nil, false
	}
	return *f.textField(name), true
}

// Text returns the string form of any field; the agreement renders as
// "true" or "false".
func (f Fields) Text(name FieldName) string {
	value, ok := f.Value(name)
	if !ok {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case Region:
		return string(typed)
	case ParticipantRange:
		return string(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

// textField returns the backing pointer for text and secret fields.
func (f *Fields) textField(name FieldName) *string {
	switch name {
	case FieldServiceProviderName:
		return &f.ServiceProviderName
	case FieldPrimaryContactName:
		return &f.PrimaryContactName
	case FieldContactNumber:
		return &f.ContactNumber
	case FieldAddress:
		return &f.Address
	case FieldPostcode:
		return &f.Postcode
	case FieldABN:
		return &f.ABN
	case FieldEmailAddress:
		return &f.EmailAddress
	case FieldPassword:
		return &f.Password
	case FieldConfirmPassword:
		return &f.ConfirmPassword
	default:
		panic(fmt.Sprintf("model: %q is not a text field", string(name)))
	}
}

// Snapshot captures every field except the password confirmation.
func (f Fields) Snapshot() Snapshot {
	return Snapshot{
		ServiceProviderName:  f.ServiceProviderName,
		PrimaryContactName:   f.PrimaryContactName,
		ContactNumber:        f.ContactNumber,
		Address:              f.Address,
		State:                f.State,
		Postcode:             f.Postcode,
		ABN:                  f.ABN,
		NumberOfParticipants: f.NumberOfParticipants,
		EmailAddress:         f.EmailAddress,
		Password:             f.Password,
		AgreeToTerms:         f.AgreeToTerms,
	}
}

// Snapshot is the payload delivered to submission backends.
type Snapshot struct {
	ServiceProviderName  string           `json:"serviceProviderName"`
	PrimaryContactName   string           `json:"primaryContactName"`
	ContactNumber        string           `json:"contactNumber"`
	Address              string           `json:"address"`
	State                Region           `json:"state"`
	Postcode             string           `json:"postcode"`
	ABN                  string           `json:"abn"`
	NumberOfParticipants ParticipantRange `json:"numberOfParticipants"`
	EmailAddress         string           `json:"emailAddress"`
	Password             string           `json:"password"`
	AgreeToTerms         bool             `json:"agreeToTerms"`
}

// SnapshotFields lists the wire names carried by a Snapshot, in declaration
// order.
func SnapshotFields() []FieldName {
	out := make([]FieldName, 0, len(fieldOrder)-1)
	for _, name := range fieldOrder {
		if name == FieldConfirmPassword {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Values encodes the snapshot as form values keyed by wire name.
func (s Snapshot) Values() url.Values {
	values := url.Values{}
	values.Set(string(FieldServiceProviderName), s.ServiceProviderName)
	values.Set(string(FieldPrimaryContactName), s.PrimaryContactName)
	values.Set(string(FieldContactNumber), s.ContactNumber)
	values.Set(string(FieldAddress), s.Address)
	values.Set(string(FieldState), string(s.State))
	values.Set(string(FieldPostcode), s.Postcode)
	values.Set(string(FieldABN), s.ABN)
	values.Set(string(FieldNumberOfParticipants), string(s.NumberOfParticipants))
	values.Set(string(FieldEmailAddress), s.EmailAddress)
	values.Set(string(FieldPassword), s.Password)
	values.Set(string(FieldAgreeToTerms), strconv.FormatBool(s.AgreeToTerms))
	return values
}

// LogValue keeps the password out of structured logs.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String(string(FieldServiceProviderName), s.ServiceProviderName),
		slog.String(string(FieldEmailAddress), s.EmailAddress),
		slog.String(string(FieldState), string(s.State)),
		slog.String(string(FieldNumberOfParticipants), string(s.NumberOfParticipants)),
		slog.String(string(FieldPassword), "[redacted]"),
	)
}
