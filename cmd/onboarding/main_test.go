package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "onboarding dev\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestContractCommand(t *testing.T) {
	out, err := execute(t, "contract")
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	if !strings.HasPrefix(out, "openapi: 3.0.3") {
		t.Fatalf("expected raw document, got %q", out[:min(len(out), 40)])
	}

	out, err = execute(t, "contract", "--fields")
	if err != nil {
		t.Fatalf("contract --fields: %v", err)
	}
	if !strings.HasPrefix(out, "FIELD") {
		t.Fatalf("expected header row, got %q", out)
	}
	if !strings.Contains(out, "emailAddress") || strings.Contains(out, "confirmPassword") {
		t.Fatalf("unexpected field list:\n%s", out)
	}
}

func TestLoadAppRejectsBadLogLevel(t *testing.T) {
	_, err := execute(t, "serve", "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "loud") {
		t.Fatalf("expected log level error, got %v", err)
	}
}

func TestReadIcon(t *testing.T) {
	inline := `<svg viewBox="0 0 1 1"></svg>`
	got, err := readIcon(inline)
	if err != nil || got != inline {
		t.Fatalf("inline icon: %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "icon.svg")
	if err := os.WriteFile(path, []byte(inline), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = readIcon(path)
	if err != nil || got != inline {
		t.Fatalf("file icon: %q, %v", got, err)
	}

	if _, err := readIcon(filepath.Join(t.TempDir(), "missing.svg")); err == nil {
		t.Fatal("expected error for missing icon file")
	}
}
