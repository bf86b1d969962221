package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI browser",
	Long: `Launch the interactive terminal user interface for managing panels.

The TUI provides:
  - Panel list with live visibility badges
  - Detail view with the full panel state
  - Show, hide and toggle actions
  - Copy panel state to clipboard
  - Real-time updates from daemon signals

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       View panel details
  t, space    Toggle selected panel
  s / h       Show / hide selected panel
  c           Close (hide) all panels
  y           Copy panel state as YAML (in detail view)
  r           Refresh from the daemon
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(tui.RunOptions{
		Logger: logger,
	})
}
