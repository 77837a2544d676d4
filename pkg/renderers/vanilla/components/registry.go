package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-onboarding/pkg/render/template"
)

// Option is one entry of a select control.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Field is the presentation state of one control. Secret fields never carry
// their value.
type Field struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	InputType   string   `json:"inputType,omitempty"`
	Value       string   `json:"value,omitempty"`
	Checked     bool     `json:"checked"`
	Required    bool     `json:"required"`
	Disabled    bool     `json:"disabled"`
	Error       string   `json:"error,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Renderer writes the control markup for field into buf.
type Renderer func(buf *bytes.Buffer, field Field, data ComponentData) error

// ComponentData carries the template engine and any theme partial overrides
// keyed like "forms.input".
type ComponentData struct {
	Template      rendertemplate.TemplateRenderer
	ThemePartials map[string]string
}

// Descriptor bundles a component name with its renderer.
type Descriptor struct {
	Name     string
	Renderer Renderer
}

// Registry tracks component descriptors keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns a copy that can be mutated independently.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = descriptor
	}
	return cloned
}

// Register associates a descriptor with name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	return descriptor, ok
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
