package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/spot/internal/model"
)

// IDsFormatter outputs bare identifiers, one per line: labels for panels,
// ULIDs for events. Useful for piping to other commands.
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// FormatPanels writes panel labels to the writer, one per line.
func (f *IDsFormatter) FormatPanels(w io.Writer, panels []model.PanelStatus) error {
	for _, ps := range panels {
		if _, err := fmt.Fprintln(w, ps.Label); err != nil {
			return err
		}
	}
	return nil
}

// FormatEvents writes event ULIDs to the writer, one per line.
func (f *IDsFormatter) FormatEvents(w io.Writer, events []model.Event) error {
	for _, e := range events {
		if _, err := fmt.Fprintln(w, e.ID); err != nil {
			return err
		}
	}
	return nil
}
