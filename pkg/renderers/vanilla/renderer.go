package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/render"
	rendertemplate "github.com/goliatone/go-onboarding/pkg/render/template"
	"github.com/goliatone/go-onboarding/pkg/render/template/pongo"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla/components"
)

// DefaultBrand is the product name shown in the page header.
const DefaultBrand = "NDIS Management"

// Page names a full page rendered outside the registration form.
type Page string

const (
	PageLanding     Page = "landing"
	PagePlaceholder Page = "placeholder"
	PageNotFound    Page = "notfound"
	PageSuccess     Page = "success"
)

// PageData carries the copy for a Page.
type PageData struct {
	Title   string
	Message string
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	theme            *theme.RendererConfig
	icon             string
	brand            string
	stylesheet       *string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the default component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithTheme applies a resolved theme. Its CSS variables are emitted ahead of
// the stylesheet and its partials override component templates.
func WithTheme(resolved *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = resolved
	}
}

// WithIcon sets the brand icon. The markup is sanitised before use.
func WithIcon(svg string) Option {
	return func(cfg *config) {
		cfg.icon = svg
	}
}

// WithBrand overrides DefaultBrand.
func WithBrand(name string) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" {
			cfg.brand = name
		}
	}
}

// WithStylesheet replaces the embedded stylesheet; an empty value emits none.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// Renderer renders the registration form and the surrounding pages as
// server-side HTML.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	components *components.Registry
	theme      *theme.RendererConfig
	icon       string
	brand      string
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), brand: DefaultBrand}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithSetName("vanilla"),
			pongo.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.components
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{
		templates:  renderer,
		components: registry,
		theme:      cfg.theme,
		icon:       SanitizeIcon(cfg.icon),
		brand:      cfg.brand,
		stylesheet: stylesheet,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the registration page for form with the per-request state
// in options.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	view := formView{
		ID:          form.ID,
		Endpoint:    form.Endpoint,
		Method:      form.Method,
		Title:       form.Title,
		Description: form.Description,
		SubmitLabel: form.SubmitLabel,
		BusyLabel:   form.BusyLabel,
		Busy:        options.Busy,
		StatusURL:   options.StatusURL,
		EventsURL:   options.EventsURL,
		FormErrors:  render.MergeFormErrors(options.FormErrors),
	}
	for _, hidden := range options.Hidden {
		if hidden.Name == "" {
			continue
		}
		view.Hidden = append(view.Hidden, hiddenView{Name: hidden.Name, Value: hidden.Value})
	}

	for _, section := range form.Sections {
		sv := sectionView{Title: section.Title}
		for _, field := range section.Fields {
			markup, err := r.renderControl(controlFor(field, options))
			if err != nil {
				return nil, err
			}
			sv.Controls = append(sv.Controls, markup)
		}
		view.Sections = append(view.Sections, sv)
	}

	data := r.pageContext()
	data["form"] = view
	return r.execute("templates/register.html", data)
}

// RenderPage renders one of the static pages.
func (r *Renderer) RenderPage(_ context.Context, page Page, data PageData) ([]byte, error) {
	switch page {
	case PageLanding, PagePlaceholder, PageNotFound, PageSuccess:
	default:
		return nil, fmt.Errorf("vanilla renderer: unknown page %q", page)
	}
	ctx := r.pageContext()
	ctx["title"] = data.Title
	ctx["message"] = data.Message
	return r.execute("templates/"+string(page)+".html", ctx)
}

func (r *Renderer) renderControl(field components.Field, kind model.FieldKind) (string, error) {
	name := components.NameFor(kind)
	descriptor, ok := r.components.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: component %q not registered for field %q", name, field.Name)
	}

	var partials map[string]string
	if r.theme != nil {
		partials = r.theme.Partials
	}

	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, field, components.ComponentData{
		Template:      r.templates,
		ThemePartials: partials,
	}); err != nil {
		return "", fmt.Errorf("vanilla renderer: render component %q for field %q: %w", name, field.Name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) pageContext() map[string]any {
	ctx := map[string]any{
		"brand":      r.brand,
		"icon":       r.icon,
		"stylesheet": r.stylesheet,
	}
	if r.theme != nil {
		ctx["theme"] = themeView{
			Name:    r.theme.Theme,
			Variant: r.theme.Variant,
			CSSVars: CSSVarsStyle(r.theme.CSSVars),
		}
	}
	return ctx
}

func (r *Renderer) execute(name string, data map[string]any) ([]byte, error) {
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// controlFor builds the presentation state of field. Secret values are never
// echoed back into the page.
func controlFor(field model.Field, options render.RenderOptions) (components.Field, model.FieldKind) {
	name := string(field.Name)
	control := components.Field{
		Name:        name,
		ID:          "ob-" + name,
		Kind:        string(field.Kind),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		InputType:   field.InputType,
		Required:    field.Required,
		Disabled:    options.Busy,
		Error:       options.Errors[name],
	}

	switch field.Kind {
	case model.FieldKindSecret:
	case model.FieldKindBoolean:
		control.Checked = options.Checked[name]
	case model.FieldKindChoice:
		current := options.Values[name]
		for _, option := range field.Options {
			control.Options = append(control.Options, components.Option{
				Value:    option.Value,
				Label:    option.Label,
				Selected: option.Value == current,
			})
		}
	default:
		control.Value = options.Values[name]
	}
	return control, field.Kind
}

type formView struct {
	ID          string        `json:"id"`
	Endpoint    string        `json:"endpoint"`
	Method      string        `json:"method"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	SubmitLabel string        `json:"submitLabel"`
	BusyLabel   string        `json:"busyLabel"`
	Busy        bool          `json:"busy"`
	StatusURL   string        `json:"statusURL,omitempty"`
	EventsURL   string        `json:"eventsURL,omitempty"`
	FormErrors  []string      `json:"formErrors,omitempty"`
	Hidden      []hiddenView  `json:"hidden,omitempty"`
	Sections    []sectionView `json:"sections"`
}

type sectionView struct {
	Title    string   `json:"title,omitempty"`
	Controls []string `json:"controls"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type themeView struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	CSSVars string `json:"cssVars,omitempty"`
}
