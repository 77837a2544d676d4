package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// Rule kinds reported on Issues.
const (
	RuleRequired = "required"
	RuleFormat   = "format"
	RuleTooShort = "tooShort"
	RuleMismatch = "mismatch"
)

// Messages attached to failing rules.
const (
	MessageServiceProviderNameRequired = "Service provider name is required"
	MessagePrimaryContactNameRequired  = "Primary contact name is required"
	MessageContactNumberRequired       = "Contact number is required"
	MessageAddressRequired             = "Address is required"
	MessageStateRequired               = "State is required"
	MessagePostcodeRequired            = "Postcode is required"
	MessageABNRequired                 = "ABN is required"
	MessageABNFormat                   = "ABN must be 11 digits"
	MessageParticipantsRequired        = "Number of participants is required"
	MessageEmailRequired               = "Email address is required"
	MessageEmailFormat                 = "Please enter a valid email address"
	MessagePasswordRequired            = "Password is required"
	MessagePasswordTooShort            = "Password must be at least 8 characters"
	MessagePasswordMismatch            = "Passwords do not match"
	MessageTermsRequired               = "You must agree to the terms and conditions"
)

// MinPasswordLength is the minimum password length in characters.
const MinPasswordLength = 8

// ABNLength is the number of digits in an Australian Business Number.
const ABNLength = 11

// Unicode spaces and the byte order mark count as whitespace, so a
// non-breaking space cannot stand in for a domain label.
var emailPattern = regexp.MustCompile(`[^\s\p{Z}\x{FEFF}]+@[^\s\p{Z}\x{FEFF}]+\.[^\s\p{Z}\x{FEFF}]+`)

// Rule is a single check attached to a field. Rules for one field run in
// declaration order and stop at the first failure.
type Rule struct {
	Kind    string
	Message string
	valid   func(model.Fields) bool
}

// Check reports whether fields satisfy the rule.
func (r Rule) Check(fields model.Fields) bool {
	if r.valid == nil {
		return true
	}
	return r.valid(fields)
}

type fieldRules struct {
	field model.FieldName
	rules []Rule
}

var ruleTable = []fieldRules{
	{model.FieldServiceProviderName, []Rule{requiredText(model.FieldServiceProviderName, MessageServiceProviderNameRequired)}},
	{model.FieldPrimaryContactName, []Rule{requiredText(model.FieldPrimaryContactName, MessagePrimaryContactNameRequired)}},
	{model.FieldContactNumber, []Rule{requiredText(model.FieldContactNumber, MessageContactNumberRequired)}},
	{model.FieldAddress, []Rule{requiredText(model.FieldAddress, MessageAddressRequired)}},
	{model.FieldState, []Rule{{
		Kind:    RuleRequired,
		Message: MessageStateRequired,
		valid:   func(f model.Fields) bool { return f.State.Valid() },
	}}},
	{model.FieldPostcode, []Rule{requiredText(model.FieldPostcode, MessagePostcodeRequired)}},
	{model.FieldABN, []Rule{
		requiredText(model.FieldABN, MessageABNRequired),
		{
			Kind:    RuleFormat,
			Message: MessageABNFormat,
			valid:   func(f model.Fields) bool { return isABN(f.ABN) },
		},
	}},
	{model.FieldNumberOfParticipants, []Rule{{
		Kind:    RuleRequired,
		Message: MessageParticipantsRequired,
		valid:   func(f model.Fields) bool { return f.NumberOfParticipants.Valid() },
	}}},
	{model.FieldEmailAddress, []Rule{
		requiredText(model.FieldEmailAddress, MessageEmailRequired),
		{
			Kind:    RuleFormat,
			Message: MessageEmailFormat,
			valid:   func(f model.Fields) bool { return emailPattern.MatchString(f.EmailAddress) },
		},
	}},
	{model.FieldPassword, []Rule{
		{
			Kind:    RuleRequired,
			Message: MessagePasswordRequired,
			valid:   func(f model.Fields) bool { return f.Password != "" },
		},
		{
			Kind:    RuleTooShort,
			Message: MessagePasswordTooShort,
			valid:   func(f model.Fields) bool { return utf8.RuneCountInString(f.Password) >= MinPasswordLength },
		},
	}},
	{model.FieldConfirmPassword, []Rule{{
		Kind:    RuleMismatch,
		Message: MessagePasswordMismatch,
		valid:   func(f model.Fields) bool { return f.ConfirmPassword == f.Password },
	}}},
	{model.FieldAgreeToTerms, []Rule{{
		Kind:    RuleRequired,
		Message: MessageTermsRequired,
		valid:   func(f model.Fields) bool { return f.AgreeToTerms },
	}}},
}

// RulesFor returns the rules attached to name in evaluation order. Fields
// without rules return nil.
func RulesFor(name model.FieldName) []Rule {
	for _, entry := range ruleTable {
		if entry.field == name {
			return append([]Rule(nil), entry.rules...)
		}
	}
	return nil
}

func requiredText(name model.FieldName, message string) Rule {
	return Rule{
		Kind:    RuleRequired,
		Message: message,
		valid: func(f model.Fields) bool {
			return strings.TrimSpace(f.Text(name)) != ""
		},
	}
}

// isABN strips every whitespace rune and requires exactly ABNLength ASCII
// digits.
func isABN(raw string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if len(stripped) != ABNLength {
		return false
	}
	for i := 0; i < len(stripped); i++ {
		if stripped[i] < '0' || stripped[i] > '9' {
			return false
		}
	}
	return true
}
