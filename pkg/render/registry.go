package render

import (
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

// Registry stores renderers by name so the server can pick the configured
// presenter at startup.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}

	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name. An empty name resolves to the only
// registered renderer when exactly one exists.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" && len(r.renderers) == 1 {
		for _, renderer := range r.renderers {
			return renderer, nil
		}
	}
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNamesLocked()
}

// Negotiate picks the renderer whose ContentType best matches an Accept
// header. Wildcards, missing headers and unmatched types fall back to the
// renderer named fallback.
func (r *Registry) Negotiate(accept, fallback string) (Renderer, error) {
	r.mu.RLock()
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || mediaType == "*/*" {
			continue
		}
		for _, name := range r.sortedNamesLocked() {
			renderer := r.renderers[name]
			if contentMediaType(renderer.ContentType()) == mediaType {
				r.mu.RUnlock()
				return renderer, nil
			}
		}
	}
	r.mu.RUnlock()
	return r.Get(fallback)
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contentMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
