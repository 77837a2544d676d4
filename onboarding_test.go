package onboarding

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/submission"
)

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/register.html"); err != nil {
		t.Fatalf("expected register template to be readable: %v", err)
	}
	data, err := fs.ReadFile(EmbeddedAssets(), "onboarding.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".ob-form") {
		t.Fatalf("expected stylesheet to style the form")
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(context.Background(), RenderOptions{
		Values: map[string]string{string(model.FieldServiceProviderName): "Acme Care"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(html)
	for _, want := range []string{"Register Your Service Provider", `value="Acme Care"`, "Create Account &amp; Start Free Trial"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestNewController(t *testing.T) {
	c := NewController(submission.Func(func(context.Context, Snapshot) error { return nil }))
	if c.State() != form.StateIdle {
		t.Fatalf("expected idle controller, got %s", c.State())
	}
}
