package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jmylchreest/spot/internal/model"
)

// DmenuFormatter formats panels and events for dmenu/rofi/fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// FormatPanels writes panels in dmenu format (one per line).
func (f *DmenuFormatter) FormatPanels(w io.Writer, panels []model.PanelStatus) error {
	for i, ps := range panels {
		line := f.formatPanelLine(i+1, &ps)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatPanelLine formats a single panel line.
func (f *DmenuFormatter) formatPanelLine(index int, ps *model.PanelStatus) string {
	// Use custom template if available
	if f.template != nil {
		var buf strings.Builder
		data := panelTemplateData{
			Index: index,
			Panel: ps,
		}
		if err := f.template.Execute(&buf, data); err == nil {
			return buf.String()
		}
	}

	// Default format: index | label | state | shortcut
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	parts = append(parts, ps.Label, visibility(ps.Visible))

	if ps.Shortcut != "" {
		parts = append(parts, ps.Shortcut)
	}

	return strings.Join(parts, sep)
}

// FormatEvents writes events in dmenu format (one per line).
func (f *DmenuFormatter) FormatEvents(w io.Writer, events []model.Event) error {
	for i, e := range events {
		line := f.formatEventLine(i+1, &e)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatEventLine formats a single event line.
func (f *DmenuFormatter) formatEventLine(index int, e *model.Event) string {
	// Use custom template if available
	if f.template != nil {
		var buf strings.Builder
		data := eventTemplateData{
			Index:        index,
			Event:        e,
			RelativeTime: relativeTime(e.Timestamp),
		}
		if err := f.template.Execute(&buf, data); err == nil {
			return buf.String()
		}
	}

	// Default format: index | time | label | kind (source)
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	if f.opts.ShowTime {
		parts = append(parts, relativeTime(e.Timestamp))
	}

	if e.Label != "" {
		parts = append(parts, e.Label)
	}

	content := string(e.Kind)
	if f.opts.ShowSource && e.Source != "" {
		content += " (" + e.Source + ")"
	}
	parts = append(parts, content)

	return strings.Join(parts, sep)
}

// panelTemplateData provides panel data for custom templates.
type panelTemplateData struct {
	Index int
	Panel *model.PanelStatus
}

// eventTemplateData provides event data for custom templates.
type eventTemplateData struct {
	Index        int
	Event        *model.Event
	RelativeTime string
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"reltime": func(ts int64) string {
			return relativeTime(ts)
		},
		"stateIcon": stateIcon,
	}
}

// stateIcon returns a one-character marker for a visible state.
func stateIcon(visible bool) string {
	if visible {
		return "*"
	}
	return "-"
}

// relativeTime returns a human-readable relative time string.
func relativeTime(timestamp int64) string {
	if timestamp == 0 {
		return "unknown"
	}

	t := time.Unix(timestamp, 0)
	d := time.Since(t)

	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		mins := int(d.Minutes())
		return fmt.Sprintf("%dm", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		return fmt.Sprintf("%dh", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		return fmt.Sprintf("%dd", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		return fmt.Sprintf("%dw", weeks)
	}
}
