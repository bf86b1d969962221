package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/dbus"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Hide all visible panels",
	Long: `Hide every panel that is currently visible.

This is the command-line equivalent of the global close shortcut: one
action that clears all overlays regardless of which are showing.`,
	Args: cobra.NoArgs,
	RunE: runClose,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	return client.HideAll()
}
