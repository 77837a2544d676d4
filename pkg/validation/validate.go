package validation

import (
	"sort"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// Issue represents a failed rule with its field and message.
type Issue struct {
	Field   model.FieldName `json:"field"`
	Rule    string          `json:"rule"`
	Message string          `json:"message"`
}

// Errors maps a field to the message of its first failing rule. A field is
// present only while its value is invalid.
type Errors map[model.FieldName]string

// Validate runs a full validation pass over fields and returns a fresh Errors
// map. It never returns nil.
func Validate(fields model.Fields) Errors {
	out := make(Errors)
	for _, issue := range Issues(fields) {
		out[issue.Field] = issue.Message
	}
	return out
}

// Issues runs a full validation pass and reports failures in field
// declaration order, one per field.
func Issues(fields model.Fields) []Issue {
	var issues []Issue
	for _, entry := range ruleTable {
		if issue, failed := firstFailure(entry, fields); failed {
			issues = append(issues, issue)
		}
	}
	return issues
}

// ValidateField evaluates the rules for a single field. It reports the
// message of the first failing rule, or ok=true when the field is valid or
// has no rules.
func ValidateField(fields model.Fields, name model.FieldName) (message string, ok bool) {
	for _, entry := range ruleTable {
		if entry.field != name {
			continue
		}
		if issue, failed := firstFailure(entry, fields); failed {
			return issue.Message, false
		}
		return "", true
	}
	return "", true
}

func firstFailure(entry fieldRules, fields model.Fields) (Issue, bool) {
	for _, rule := range entry.rules {
		if !rule.Check(fields) {
			return Issue{Field: entry.field, Rule: rule.Kind, Message: rule.Message}, true
		}
	}
	return Issue{}, false
}

// Has reports whether name carries an error.
func (e Errors) Has(name model.FieldName) bool {
	_, ok := e[name]
	return ok
}

// Clone returns an independent copy. Cloning nil yields an empty map.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for name, message := range e {
		out[name] = message
	}
	return out
}

// Fields lists the fields carrying errors in declaration order.
func (e Errors) Fields() []model.FieldName {
	out := make([]model.FieldName, 0, len(e))
	for name := range e {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Index() < out[j].Index()
	})
	return out
}

// Messages returns the errors keyed by wire name, the shape presenters and
// JSON payloads use.
func (e Errors) Messages() map[string]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string]string, len(e))
	for name, message := range e {
		out[string(name)] = message
	}
	return out
}
