package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/monitor"
)

var monitorsOpts struct {
	jsonOut bool
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "Show detected monitors",
	Long: `Show the monitors the locator detects in the current session.

This is a debugging aid for panel placement: it prints each monitor's
geometry and marks the one under the pointer, which is where spotd
centers panels. Sessions without an X display fall back to a no-op
locator that reports nothing.

Examples:
  # Human-readable listing
  spot monitors

  # Machine-readable
  spot monitors --json`,
	RunE: runMonitors,
}

func init() {
	rootCmd.AddCommand(monitorsCmd)

	monitorsCmd.Flags().BoolVar(&monitorsOpts.jsonOut, "json", false,
		"Output monitors as JSON")
}

func runMonitors(cmd *cobra.Command, args []string) error {
	locator := monitor.Detect(logger)
	defer locator.Close()

	monitors, err := locator.All()
	if err != nil {
		return fmt.Errorf("failed to list monitors: %w", err)
	}

	pointer, err := locator.UnderPointer()
	if err != nil {
		logger.Debug("pointer lookup failed", "error", err)
	}

	if monitorsOpts.jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(monitors)
	}

	if len(monitors) == 0 {
		fmt.Printf("No monitors detected (locator: %s)\n", locator.Name())
		return nil
	}

	fmt.Printf("Locator: %s\n", locator.Name())
	for i := range monitors {
		m := &monitors[i]

		var notes []string
		if m.Primary {
			notes = append(notes, "primary")
		}
		if pointer != nil && sameMonitor(m, pointer) {
			notes = append(notes, "pointer")
		}

		line := fmt.Sprintf("  %s scale=%g", m.String(), m.Scale)
		if len(notes) > 0 {
			line += " [" + strings.Join(notes, ", ") + "]"
		}
		fmt.Println(line)
	}

	return nil
}

// sameMonitor reports whether two infos describe the same monitor.
func sameMonitor(a, b *monitor.Info) bool {
	return a.X == b.X && a.Y == b.Y && a.Width == b.Width && a.Height == b.Height
}
