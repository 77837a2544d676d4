package tui

import (
	"io"
	"log/slog"

	"github.com/muesli/termenv"
)

// Palette holds the hex colours used for status lines.
type Palette struct {
	Error   string
	Success string
	Info    string
	Heading string
}

// DefaultPalette matches the web presenter.
var DefaultPalette = Palette{
	Error:   "#dc2626",
	Success: "#16a34a",
	Info:    "#2563eb",
	Heading: "#111827",
}

// Option configures the Presenter.
type Option func(*Presenter)

// WithPromptDriver overrides the prompt driver used by the presenter.
func WithPromptDriver(driver PromptDriver) Option {
	return func(p *Presenter) {
		if driver != nil {
			p.driver = driver
		}
	}
}

// WithOutput directs status lines and rendered markdown to w.
func WithOutput(w io.Writer) Option {
	return func(p *Presenter) {
		if w != nil {
			p.out = w
		}
	}
}

// WithColorProfile forces a termenv profile; termenv.Ascii disables colour.
func WithColorProfile(profile termenv.Profile) Option {
	return func(p *Presenter) {
		p.profile = &profile
	}
}

// WithMarkdownStyle selects a glamour standard style such as "dark", "light"
// or "notty". An empty style detects the terminal background.
func WithMarkdownStyle(style string) Option {
	return func(p *Presenter) {
		p.markdownStyle = style
	}
}

// WithPalette overrides DefaultPalette.
func WithPalette(palette Palette) Option {
	return func(p *Presenter) {
		p.palette = palette
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		if logger != nil {
			p.logger = logger
		}
	}
}
