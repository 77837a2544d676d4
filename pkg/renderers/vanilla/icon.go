package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// SanitizeIcon strips everything but inert SVG drawing markup from a
// configured brand icon. Markup without a surviving <svg> element yields "".
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
	if !strings.HasPrefix(cleaned, "<svg") {
		return ""
	}
	return cleaned
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		shapes := []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"}

		policy.AllowElements(append([]string{"svg", "g", "title", "desc", "defs"}, shapes...)...)
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden",
			"role", "focusable", "class",
		).OnElements("svg")
		policy.AllowAttrs(
			"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
			"points", "rx", "ry", "fill", "stroke", "stroke-width",
			"stroke-linecap", "stroke-linejoin", "class",
		).OnElements(shapes...)
		policy.AllowAttrs("fill", "stroke", "class").OnElements("g")

		iconPolicy = policy
	})
	return iconPolicy
}
