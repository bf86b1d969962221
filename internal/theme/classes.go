package theme

import "strings"

// CSS class contract shared between the bundled themes and the daemon's
// window construction.
const (
	// PanelClass is set on every managed panel window.
	PanelClass = "spotlight-panel"

	// ContentClass is set on the placeholder content widget inside a panel.
	ContentClass = "panel-content"

	// VisibleClass is present on a panel window while it is shown.
	VisibleClass = "visible"

	// HiddenClass is present on a panel window while it is hidden.
	HiddenClass = "hidden"
)

// PanelLabelClass returns the per-panel CSS class for a registry label,
// e.g. "panel-scratchpad". Characters that are not valid in a CSS class
// name are replaced with '-'.
func PanelLabelClass(label string) string {
	var sb strings.Builder
	sb.WriteString("panel-")
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
