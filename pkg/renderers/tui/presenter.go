package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
)

const trialNotice = `> **Free Trial Included**
>
> Your account starts with a free trial period. No credit card required. You can upgrade to a paid plan anytime to unlock additional features and participant limits.
`

// Presenter walks a form controller through a terminal session.
type Presenter struct {
	driver        PromptDriver
	out           io.Writer
	profile       *termenv.Profile
	markdownStyle string
	palette       Palette
	logger        *slog.Logger

	layout   model.FormModel
	colors   termenv.Profile
	markdown func(string) (string, error)
}

// New constructs a Presenter with the survey driver writing to stdout unless
// options say otherwise.
func New(options ...Option) (*Presenter, error) {
	p := &Presenter{
		out:     os.Stdout,
		palette: DefaultPalette,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		layout:  model.RegistrationForm(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	if p.driver == nil {
		p.driver = NewSurveyDriver()
	}

	if p.profile != nil {
		p.colors = *p.profile
	} else {
		p.colors = termenv.NewOutput(p.out).Profile
	}

	style := glamour.WithAutoStyle()
	if p.markdownStyle != "" {
		style = glamour.WithStandardStyle(p.markdownStyle)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return nil, fmt.Errorf("tui: markdown renderer: %w", err)
	}
	p.markdown = renderer.Render

	return p, nil
}

// Run prompts every field, submits, and keeps going until the registration
// succeeds or the user declines to retry a failed submission. Only fields
// carrying errors are prompted again after an invalid submit.
func (p *Presenter) Run(ctx context.Context, c *form.Controller) (form.State, error) {
	if c == nil {
		return "", ErrNoController
	}
	if err := p.intro(); err != nil {
		return c.State(), err
	}

	pending := setOf(model.AllFields())
	for {
		if err := p.promptPending(ctx, c, pending); err != nil {
			return c.State(), err
		}

		err := c.Submit(ctx)
		switch {
		case errors.Is(err, form.ErrInvalid):
			errs := c.Errors()
			p.logger.Debug("registration invalid", "fields", len(errs))
			p.line(p.palette.Error, fmt.Sprintf("Please fix %d field(s) before continuing.", len(errs)))
			pending = setOf(errs.Fields())
			continue
		case errors.Is(err, form.ErrCompleted):
			return form.StateSucceeded, nil
		case err != nil && !errors.Is(err, form.ErrSubmitInFlight):
			return c.State(), err
		}

		p.line(p.palette.Info, p.layout.BusyLabel)
		state, err := c.Wait(ctx)
		if err != nil {
			return state, err
		}

		switch state {
		case form.StateSucceeded:
			p.line(p.palette.Success, "Account created. Your free trial has started.")
			return state, nil
		case form.StateFailed:
			p.line(p.palette.Error, "Registration failed: "+c.View().FailureMessage())
			retry, err := p.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
			if err != nil {
				return state, err
			}
			if !retry {
				return state, nil
			}
			pending = nil
		default:
			return state, nil
		}
	}
}

func (p *Presenter) intro() error {
	md := "# " + p.layout.Title + "\n\n" + p.layout.Description + "\n\n" + trialNotice
	rendered, err := p.markdown(md)
	if err != nil {
		return fmt.Errorf("tui: render intro: %w", err)
	}
	_, err = io.WriteString(p.out, rendered)
	return err
}

func (p *Presenter) promptPending(ctx context.Context, c *form.Controller, pending map[model.FieldName]bool) error {
	if len(pending) == 0 {
		return nil
	}
	errs := c.Errors()

	for _, section := range p.layout.Sections {
		headed := false
		for _, field := range section.Fields {
			if !pending[field.Name] {
				continue
			}
			if !headed && section.Title != "" {
				p.heading(section.Title)
				headed = true
			}
			if message, ok := errs[field.Name]; ok {
				p.line(p.palette.Error, "  "+message)
			}
			value, err := p.prompt(ctx, field, c.Fields())
			if err != nil {
				return err
			}
			if err := c.SetField(field.Name, value); err != nil {
				return fmt.Errorf("tui: set %s: %w", field.Name, err)
			}
		}
	}
	return nil
}

func (p *Presenter) prompt(ctx context.Context, field model.Field, current model.Fields) (any, error) {
	switch field.Kind {
	case model.FieldKindSecret:
		return p.driver.Password(ctx, InputConfig{Message: field.Label, Help: field.Placeholder})
	case model.FieldKindBoolean:
		return p.driver.Confirm(ctx, ConfirmConfig{Message: field.Label, Default: current.AgreeToTerms})
	case model.FieldKindChoice:
		labels := make([]string, len(field.Options))
		selected := -1
		value := current.Text(field.Name)
		for i, option := range field.Options {
			labels[i] = option.Label
			if option.Value == value {
				selected = i
			}
		}
		idx, err := p.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      labels,
			DefaultIndex: selected,
			Help:         field.Placeholder,
			PageSize:     len(labels),
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil
	default:
		return p.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current.Text(field.Name),
			Help:    field.Placeholder,
		})
	}
}

func (p *Presenter) heading(title string) {
	styled := p.colors.String(title).Foreground(p.colors.Color(p.palette.Heading)).Bold().String()
	fmt.Fprintln(p.out, "\n"+styled)
}

func (p *Presenter) line(hex, text string) {
	styled := p.colors.String(text).Foreground(p.colors.Color(hex)).String()
	fmt.Fprintln(p.out, styled)
}

func setOf(names []model.FieldName) map[model.FieldName]bool {
	out := make(map[model.FieldName]bool, len(names))
	for _, name := range names {
		out[name] = true
	}
	return out
}
