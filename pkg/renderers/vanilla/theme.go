package vanilla

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Defaults for the built-in theme.
const (
	DefaultThemeName = "onboarding"
	DefaultVariant   = "light"
)

// DefaultManifest describes the built-in palette. Token names map one to one
// onto the CSS custom properties used by the embedded stylesheet.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":         "#2563eb",
			"brand-strong":  "#1d4ed8",
			"page":          "#f9fafb",
			"surface":       "#ffffff",
			"text":          "#111827",
			"muted":         "#4b5563",
			"border":        "#e5e7eb",
			"danger":        "#dc2626",
			"notice-bg":     "#f0fdf4",
			"notice-border": "#bbf7d0",
			"notice-text":   "#166534",
			"radius":        "0.75rem",
		},
		Templates: map[string]string{
			"forms.input":    "templates/components/input.html",
			"forms.select":   "templates/components/select.html",
			"forms.checkbox": "templates/components/checkbox.html",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"page":    "#111827",
					"surface": "#1f2937",
					"text":    "#f9fafb",
					"muted":   "#9ca3af",
					"border":  "#374151",
				},
			},
		},
	}
}

// ResolveTheme flattens manifest and the named variant into the renderer
// configuration. Overrides win over variant tokens, which win over base
// tokens. An empty variant or DefaultVariant selects the base tokens.
func ResolveTheme(manifest *theme.Manifest, variant string, overrides map[string]string) (*theme.RendererConfig, error) {
	if manifest == nil {
		manifest = DefaultManifest()
	}
	if err := theme.NewRegistry().Register(manifest); err != nil {
		return nil, fmt.Errorf("vanilla: invalid theme manifest: %w", err)
	}

	variant = strings.TrimSpace(variant)
	var selected *theme.Variant
	if variant != "" && variant != DefaultVariant {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", manifest.Name, variant)
		}
		selected = &v
	}
	if variant == "" {
		variant = DefaultVariant
	}

	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	assets := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if selected != nil {
		tokens = mergeStrings(tokens, selected.Tokens)
		partials = mergeStrings(partials, selected.Templates)
		assets = mergeStrings(assets, selected.Assets.Files)
		if selected.Assets.Prefix != "" {
			prefix = selected.Assets.Prefix
		}
	}
	for key, value := range overrides {
		tokens[tokenName(key)] = value
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		name := tokenName(key)
		if name == "" || !safeCSSValue(value) {
			continue
		}
		cssVars["--"+name] = strings.TrimSpace(value)
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file := assets[key]
			if file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}, nil
}

// CSSVarsStyle renders vars as a sorted :root rule.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// tokenName accepts both "brand" and "--brand".
func tokenName(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), "--")
}

// safeCSSValue rejects token values that could close the rule or the style
// element they are written into.
func safeCSSValue(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.ContainsAny(value, "<>{};")
}

func mergeStrings(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		out[key] = value
	}
	return out
}
