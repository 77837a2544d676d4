package components

import (
	"bytes"
	"fmt"
	"strings"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry holding the input, select and
// checkbox components.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.html"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.html"),
	})
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"checkbox.html"),
	})
	return registry
}

// templateComponentRenderer renders templateName unless the theme maps
// partialKey to another template.
func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{"field": field})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
