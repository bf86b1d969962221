package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/dbus"
)

var toggleOpts struct {
	quiet bool // Suppress output, return exit code only
}

var toggleCmd = &cobra.Command{
	Use:   "toggle LABEL",
	Short: "Toggle a panel's visibility",
	Long: `Toggle the panel registered under LABEL.

The exit code reports the resulting state (0=hidden, 1=shown), so the
command can drive conditional scripts and bar modules:

  spot toggle scratchpad -q && echo "scratchpad is now hidden"

Unlike show and hide, toggling a label the daemon does not manage is an
error: a toggle keybind pointing at a missing panel is a configuration
mistake worth surfacing.`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)

	toggleCmd.Flags().BoolVarP(&toggleOpts.quiet, "quiet", "q", false,
		"Suppress output, return exit code only (0=hidden, 1=shown)")
}

func runToggle(cmd *cobra.Command, args []string) error {
	label := args[0]

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	visible, err := client.Toggle(label)
	if err != nil {
		return err
	}

	if !toggleOpts.quiet {
		if visible {
			fmt.Printf("%s: shown\n", label)
		} else {
			fmt.Printf("%s: hidden\n", label)
		}
	}

	// Exit code: 0=hidden, 1=shown
	if visible {
		os.Exit(1)
	}
	return nil
}
