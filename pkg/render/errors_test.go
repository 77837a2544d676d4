package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/render"
)

func TestMapErrorPayload_NormalisesPaths(t *testing.T) {
	form := model.RegistrationForm()

	payload := map[string][]string{
		"/body/abn":              {"ABN already registered"},
		"data.emailAddress":      {"Email in use", " Email in use "},
		"email_address":          {"Email domain blocked"},
		"$.payload.postcode":     {"Unknown postcode"},
		"non_field_errors":       {"Service unavailable"},
		"request/body/nickname":  {"Should fall back to form errors"},
		"":                       {"Unscoped form error"},
		"contact-number":         {"   "},
		"body.owner.primary.abn": {"Nested paths are form level"},
	}

	got := render.MapErrorPayload(form, payload)
	want := render.ErrorMapping{
		Fields: map[model.FieldName][]string{
			model.FieldABN:          {"ABN already registered"},
			model.FieldEmailAddress: {"Email in use", "Email domain blocked"},
			model.FieldPostcode:     {"Unknown postcode"},
		},
		Form: []string{
			"Unscoped form error",
			"Nested paths are form level",
			"Service unavailable",
			"Should fall back to form errors",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[model.FieldName]string{
		model.FieldABN:          "ABN already registered",
		model.FieldEmailAddress: "Email in use",
		model.FieldPostcode:     "Unknown postcode",
	}, got.FieldMessages()); diff != "" {
		t.Fatalf("field messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	got := render.MapErrorPayload(model.RegistrationForm(), nil)
	if !got.Empty() {
		t.Fatalf("expected empty mapping, got %+v", got)
	}
}

func TestDecodeErrorPayload(t *testing.T) {
	payload, ok := render.DecodeErrorPayload([]byte(`{
		"errors": {"abn": "ABN already registered", "emailAddress": ["Email in use"], "bad": 3},
		"message": "Registration rejected"
	}`))
	if !ok {
		t.Fatalf("expected JSON payload to decode")
	}
	want := map[string][]string{
		"abn":          {"ABN already registered"},
		"emailAddress": {"Email in use"},
		"form":         {"Registration rejected"},
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	if _, ok := render.DecodeErrorPayload([]byte("<html>502</html>")); ok {
		t.Fatalf("expected non-JSON body to be rejected")
	}
}

func TestErrorMapping_Messages(t *testing.T) {
	mapping := render.ErrorMapping{
		Fields: map[model.FieldName][]string{
			model.FieldEmailAddress:        {"Email in use"},
			model.FieldServiceProviderName: {"Name taken"},
		},
		Form: []string{"Try again later"},
	}
	want := []string{"Try again later", "Name taken", "Email in use"}
	if diff := cmp.Diff(want, mapping.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}
