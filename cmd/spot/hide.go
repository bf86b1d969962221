package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/dbus"
)

var hideCmd = &cobra.Command{
	Use:   "hide LABEL",
	Short: "Hide a panel",
	Long: `Hide the panel registered under LABEL.

Hiding a panel that is already hidden does nothing, and unknown labels
are ignored, matching show.

Examples:
  # Hide the scratchpad panel
  spot hide scratchpad`,
	Args: cobra.ExactArgs(1),
	RunE: runHide,
}

func init() {
	rootCmd.AddCommand(hideCmd)
}

func runHide(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	return client.Hide(args[0])
}
