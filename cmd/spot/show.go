package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/dbus"
)

var showCmd = &cobra.Command{
	Use:   "show LABEL",
	Short: "Show a panel",
	Long: `Show the panel registered under LABEL.

Showing a panel that is already visible does nothing. Unknown labels are
ignored so keybind scripts stay quiet when a panel is not configured.

Examples:
  # Show the scratchpad panel
  spot show scratchpad`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	return client.Show(args[0])
}
