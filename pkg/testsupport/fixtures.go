// Package testsupport holds fixtures and golden file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// ValidFields returns a registration that passes every rule.
func ValidFields() model.Fields {
	return model.Fields{
		ServiceProviderName:  "Acme Care",
		PrimaryContactName:   "Jo Bloggs",
		ContactNumber:        "0400 000 000",
		Address:              "1 Example St",
		State:                model.RegionNSW,
		Postcode:             "2000",
		ABN:                  "12345678901",
		NumberOfParticipants: model.Participants11To25,
		EmailAddress:         "admin@acme.test",
		Password:             "longenough1",
		ConfirmPassword:      "longenough1",
		AgreeToTerms:         true,
	}
}

// ValidValues returns ValidFields keyed by wire name, the shape posted by
// the HTML form.
func ValidValues() map[string]string {
	fields := ValidFields()
	out := make(map[string]string, len(model.AllFields()))
	for _, name := range model.AllFields() {
		out[string(name)] = fields.Text(name)
	}
	out[string(model.FieldAgreeToTerms)] = "on"
	return out
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
