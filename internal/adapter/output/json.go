package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/spot/internal/model"
)

// JSONFormatter formats panels and events as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// FormatPanels writes panel snapshots as a JSON array.
func (f *JSONFormatter) FormatPanels(w io.Writer, panels []model.PanelStatus) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(panels)
}

// FormatEvents writes events as a JSON array.
func (f *JSONFormatter) FormatEvents(w io.Writer, events []model.Event) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(events)
}

// FormatStatus writes a daemon status summary as JSON.
func (f *JSONFormatter) FormatStatus(w io.Writer, status model.DaemonStatus) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}
