package render

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// ErrorMapping splits a remote error payload into field-level and form-level
// messages. Field keys are registration field names.
type ErrorMapping struct {
	Fields map[model.FieldName][]string `json:"fields,omitempty"`
	Form   []string                     `json:"form,omitempty"`
}

// Empty reports whether the mapping carries no messages.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// FieldMessages returns the first message of every mapped field, the shape
// the form controller stores.
func (m ErrorMapping) FieldMessages() map[model.FieldName]string {
	if len(m.Fields) == 0 {
		return nil
	}
	out := make(map[model.FieldName]string, len(m.Fields))
	for name, messages := range m.Fields {
		if len(messages) > 0 {
			out[name] = messages[0]
		}
	}
	return out
}

// Messages flattens the mapping into display lines: form-level messages
// first, then field messages in declaration order.
func (m ErrorMapping) Messages() []string {
	out := append([]string(nil), m.Form...)
	for _, name := range model.AllFields() {
		out = append(out, m.Fields[name]...)
	}
	return out
}

// MergeFormErrors concatenates and normalises form-level error slices,
// trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises server error payloads into registration field
// names. Keys may be wire names, JSON pointers ("/body/emailAddress"),
// dotted paths ("data.abn") or snake/kebab case ("email_address"). Unknown
// keys become form-level errors so messages are not lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[model.FieldName][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]model.FieldName)
	for _, section := range form.Sections {
		for _, field := range section.Fields {
			known[foldKey(string(field.Name))] = field.Name
		}
	}

	// Iterate in a stable order so form-level messages are deterministic.
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, rawPath := range keys {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}
		name, ok := mapErrorPath(rawPath, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// DecodeErrorPayload reads a {"errors": {...}, "message": "..."} body. Error
// values may be a string or a list of strings. Bodies that are not JSON
// return ok=false.
func DecodeErrorPayload(body []byte) (map[string][]string, bool) {
	var envelope struct {
		Errors  map[string]json.RawMessage `json:"errors"`
		Message string                     `json:"message"`
		Error   string                     `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}

	out := make(map[string][]string, len(envelope.Errors)+1)
	for key, raw := range envelope.Errors {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			out[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			out[key] = []string{single}
		}
	}
	for _, message := range []string{envelope.Message, envelope.Error} {
		if strings.TrimSpace(message) != "" {
			out["form"] = append(out["form"], message)
		}
	}
	return out, true
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known map[string]model.FieldName) (model.FieldName, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}

	segments := dropWrapperSegments(parsePathSegments(trimmed))
	if len(segments) != 1 {
		return "", false
	}
	name, ok := known[foldKey(segments[0])]
	return name, ok
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	for len(segments) > 0 && isWrapperSegment(segments[0]) {
		segments = segments[1:]
	}
	return segments
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "attributes", "snapshot":
		return true
	default:
		return false
	}
}

// foldKey lowercases and drops separators so "email_address",
// "email-address" and "emailAddress" compare equal.
func foldKey(key string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(key))
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
