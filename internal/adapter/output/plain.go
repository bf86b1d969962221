package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/spot/internal/model"
)

// PlainFormatter formats panels and events as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// FormatPanels writes panel snapshots as plain text, one per line.
func (f *PlainFormatter) FormatPanels(w io.Writer, panels []model.PanelStatus) error {
	for i, ps := range panels {
		if err := f.formatPanel(w, i+1, &ps); err != nil {
			return err
		}
	}
	return nil
}

// formatPanel formats a single panel snapshot.
func (f *PlainFormatter) formatPanel(w io.Writer, index int, ps *model.PanelStatus) error {
	// Use custom template if available
	if f.template != nil {
		data := panelTemplateData{
			Index: index,
			Panel: ps,
		}
		return f.template.Execute(w, data)
	}

	// Default format
	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	sb.WriteString(fmt.Sprintf("%s %s %s", stateIcon(ps.Visible), ps.Label, visibility(ps.Visible)))

	if ps.Shortcut != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", ps.Shortcut))
	}

	sb.WriteString("\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatEvents writes events as plain text.
func (f *PlainFormatter) FormatEvents(w io.Writer, events []model.Event) error {
	for i, e := range events {
		if err := f.formatEvent(w, i+1, &e); err != nil {
			return err
		}
	}
	return nil
}

// formatEvent formats a single event.
func (f *PlainFormatter) formatEvent(w io.Writer, index int, e *model.Event) error {
	// Use custom template if available
	if f.template != nil {
		data := eventTemplateData{
			Index:        index,
			Event:        e,
			RelativeTime: relativeTime(e.Timestamp),
		}
		return f.template.Execute(w, data)
	}

	// Default format
	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	if e.Label != "" {
		sb.WriteString(fmt.Sprintf("<%s> ", e.Label))
	}

	sb.WriteString(string(e.Kind))

	if f.opts.ShowTime {
		sb.WriteString(fmt.Sprintf(" (%s)", relativeTime(e.Timestamp)))
	}

	sb.WriteString("\n")

	if f.opts.ShowSource && e.Source != "" {
		sb.WriteString("    source: " + e.Source + "\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

// visibility names a panel's visible state.
func visibility(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}

// FormatPanelField outputs a specific field from a panel snapshot.
func FormatPanelField(ps *model.PanelStatus, field string) string {
	switch strings.ToLower(field) {
	case "label":
		return ps.Label
	case "visible", "state":
		return visibility(ps.Visible)
	case "shortcut":
		return ps.Shortcut
	case "level", "stacking_level":
		return fmt.Sprintf("%d", ps.StackingLevel)
	case "backend":
		return ps.Backend
	case "all", "full":
		return fmt.Sprintf("%s %s %s", ps.Label, visibility(ps.Visible), ps.Shortcut)
	default:
		return ps.Label
	}
}
