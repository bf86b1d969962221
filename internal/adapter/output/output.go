// Package output provides output formatters for panel listings and events.
package output

import (
	"io"

	"github.com/jmylchreest/spot/internal/model"
)

// PanelFormatter formats panel snapshots for output.
type PanelFormatter interface {
	// FormatPanels writes formatted panel snapshots to the writer.
	FormatPanels(w io.Writer, panels []model.PanelStatus) error
}

// EventFormatter formats journal events for output.
type EventFormatter interface {
	// FormatEvents writes formatted events to the writer.
	FormatEvents(w io.Writer, events []model.Event) error
}

// Formatter formats both panel snapshots and events.
type Formatter interface {
	PanelFormatter
	EventFormatter
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatDmenu FormatType = "dmenu"
	FormatIDs   FormatType = "ids"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for dmenu/plain format
	ShowIndex  bool   // Show 1-based index prefix
	ShowTime   bool   // Show relative time on events
	ShowSource bool   // Show the transition source on events
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		ShowSource: true,
		Separator:  " | ",
	}
}
