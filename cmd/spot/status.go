package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/core"
	"github.com/jmylchreest/spot/internal/dbus"
	"github.com/jmylchreest/spot/internal/model"
)

var statusOpts struct {
	jsonOut bool
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long: `Show the state of the running daemon.

By default, prints a human-readable summary: version, activation
backend, panel counts and the most recent journal entry. With --json,
outputs Waybar's custom module JSON format:

  "custom/spot": {
    "exec": "spot status --json",
    "interval": 5,
    "return-type": "json",
    "on-click": "spot close"
  }

The JSON output includes:
  - text: Number of visible panels (empty when none)
  - alt: State class (active, idle, off)
  - tooltip: Per-panel breakdown
  - class: CSS class matching alt`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusOpts.jsonOut, "json", false,
		"Output Waybar-compatible JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		if statusOpts.jsonOut {
			return outputStatus(WaybarStatus{Text: "", Alt: "off", Class: "off"})
		}
		return err
	}

	status, err := client.Status()
	if err != nil {
		// Waybar keeps polling; report the daemon as off instead of failing
		if statusOpts.jsonOut {
			return outputStatus(WaybarStatus{Text: "", Alt: "off", Class: "off"})
		}
		return err
	}

	// GetStatus carries counts only; the panel list is a separate call
	if panels, err := client.ListPanels(); err == nil {
		status.Panels = panels
	}

	if statusOpts.jsonOut {
		return outputStatus(waybarFromStatus(status))
	}

	printHumanStatus(status)
	return nil
}

// waybarFromStatus creates a WaybarStatus from a daemon summary.
func waybarFromStatus(status model.DaemonStatus) WaybarStatus {
	tooltip := buildStatusTooltip(status)

	if status.VisibleCount == 0 {
		return WaybarStatus{
			Text:    "",
			Alt:     "idle",
			Tooltip: tooltip,
			Class:   "idle",
		}
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%d", status.VisibleCount),
		Alt:        "active",
		Tooltip:    tooltip,
		Class:      "active",
		Percentage: percentVisible(status),
	}
}

// percentVisible reports how much of the panel set is showing.
func percentVisible(status model.DaemonStatus) int {
	if status.PanelCount == 0 {
		return 0
	}
	return status.VisibleCount * 100 / status.PanelCount
}

// buildStatusTooltip creates a tooltip with a per-panel breakdown.
func buildStatusTooltip(status model.DaemonStatus) string {
	if status.PanelCount == 0 {
		return "No panels configured"
	}

	lines := make([]string, 0, len(status.Panels)+1)
	lines = append(lines, fmt.Sprintf("%d/%d visible", status.VisibleCount, status.PanelCount))
	for _, ps := range status.Panels {
		lines = append(lines, fmt.Sprintf("%s: %s", ps.Label, visibilityWord(ps.Visible)))
	}
	return strings.Join(lines, "\n")
}

// visibilityWord names a visible state the way the daemon's signals do.
func visibilityWord(visible bool) string {
	if visible {
		return "shown"
	}
	return "hidden"
}

// printHumanStatus prints a human-readable daemon summary.
func printHumanStatus(status model.DaemonStatus) {
	fmt.Printf("spotd %s\n", status.Version)

	fmt.Printf("  Backend: %s", status.Backend)
	if status.BackendDetail != "" {
		fmt.Printf(" (%s)", status.BackendDetail)
	}
	fmt.Println()

	fmt.Printf("  Panels: %d (%d visible)\n", status.PanelCount, status.VisibleCount)
	for _, ps := range status.Panels {
		line := fmt.Sprintf("    %s: %s", ps.Label, visibilityWord(ps.Visible))
		if ps.Shortcut != "" {
			line += fmt.Sprintf(" (%s)", ps.Shortcut)
		}
		fmt.Println(line)
	}

	if e := lastJournalEvent(); e != nil {
		fmt.Printf("  Last event: %s\n", describeLastEvent(e))
	}
}

// lastJournalEvent returns the most recent journal entry, or nil when the
// journal is empty or unreadable.
func lastJournalEvent() *model.Event {
	events, err := loadJournalEvents()
	if err != nil || len(events) == 0 {
		return nil
	}

	core.Sort(events, core.DefaultSortOptions())
	return &events[0]
}

// describeLastEvent formats the newest transition as a human-readable line.
func describeLastEvent(e *model.Event) string {
	what := string(e.Kind)
	if e.Label != "" {
		what = fmt.Sprintf("%s <%s>", e.Kind, e.Label)
	}
	return fmt.Sprintf("%s, %s", what, humanize.Time(time.Unix(e.Timestamp, 0)))
}

// outputStatus writes the status as JSON.
func outputStatus(status WaybarStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	return encoder.Encode(status)
}
