package onboarding

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla"
	"github.com/goliatone/go-onboarding/pkg/submission"
)

// Snapshot is the payload handed to a submission service.
type Snapshot = model.Snapshot

// Service delivers registration snapshots.
type Service = submission.Service

// RenderOptions describes per-request state used to prefill values or surface
// validation errors in the rendered form.
type RenderOptions = render.RenderOptions

// NewController returns a form controller for the registration form that
// delivers valid submissions to service.
func NewController(service Service, options ...form.Option) *form.Controller {
	return form.New(service, options...)
}

// RenderHTML renders the registration page with the built-in HTML renderer.
// It is the simplest entry point for callers that just want markup.
func RenderHTML(ctx context.Context, state RenderOptions, options ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, model.RegistrationForm(), state)
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the built-in stylesheet for serving over HTTP.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(onboarding.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
