package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-onboarding/pkg/model"
)

// JSONRenderer serialises the layout together with the per-request state so
// script-driven clients can build their own markup.
type JSONRenderer struct{}

type jsonDocument struct {
	Form       model.FormModel   `json:"form"`
	Values     map[string]string `json:"values,omitempty"`
	Checked    map[string]bool   `json:"checked,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	FormErrors []string          `json:"formErrors,omitempty"`
	Hidden     map[string]string `json:"hidden,omitempty"`
	Busy       bool              `json:"busy"`
	StatusURL  string            `json:"statusUrl,omitempty"`
	EventsURL  string            `json:"eventsUrl,omitempty"`
}

func (JSONRenderer) Name() string { return "json" }

func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

func (JSONRenderer) Render(_ context.Context, form model.FormModel, options RenderOptions) ([]byte, error) {
	hidden := make(map[string]string, len(options.Hidden))
	for _, field := range options.Hidden {
		hidden[field.Name] = field.Value
	}
	if len(hidden) == 0 {
		hidden = nil
	}

	out, err := json.Marshal(jsonDocument{
		Form:       form,
		Values:     options.Values,
		Checked:    options.Checked,
		Errors:     options.Errors,
		FormErrors: options.FormErrors,
		Hidden:     hidden,
		Busy:       options.Busy,
		StatusURL:  options.StatusURL,
		EventsURL:  options.EventsURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return out, nil
}
