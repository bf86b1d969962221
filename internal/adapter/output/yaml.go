package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/spot/internal/model"
)

// YAMLFormatter formats panels and events as YAML.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// FormatPanels writes panel snapshots as a YAML document.
func (f *YAMLFormatter) FormatPanels(w io.Writer, panels []model.PanelStatus) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(panels)
}

// FormatEvents writes events as a YAML document.
func (f *YAMLFormatter) FormatEvents(w io.Writer, events []model.Event) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(events)
}

// FormatStatus writes a daemon status summary as YAML.
func (f *YAMLFormatter) FormatStatus(w io.Writer, status model.DaemonStatus) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(status)
}
