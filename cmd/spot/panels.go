package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/adapter/output"
	"github.com/jmylchreest/spot/internal/dbus"
	"github.com/jmylchreest/spot/internal/model"
)

var panelsOpts struct {
	// Filter options
	visible bool

	// Output options
	format    string
	field     string
	template  string
	separator string
	noIndex   bool
}

var panelsCmd = &cobra.Command{
	Use:   "panels [label]",
	Short: "List managed panels",
	Long: `List the panels managed by the running daemon.

Without arguments, outputs every panel with its visibility, shortcut
and state. With a label argument, outputs that panel only; combine with
--field to extract a single value for scripts.

Examples:
  # List all panels
  spot panels

  # Only the currently visible panels
  spot panels --visible

  # Pick a panel with fuzzel and toggle it
  spot panels --format dmenu | fuzzel -d | cut -d'|' -f2 | xargs spot toggle

  # Is the scratchpad showing?
  spot panels scratchpad --field visible

  # Machine-readable listings
  spot panels --format json
  spot panels --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPanels,
}

func init() {
	rootCmd.AddCommand(panelsCmd)

	// Filter flags
	panelsCmd.Flags().BoolVar(&panelsOpts.visible, "visible", false,
		"Only list panels that are currently visible")

	// Output flags
	panelsCmd.Flags().StringVarP(&panelsOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, dmenu, ids)")
	panelsCmd.Flags().StringVar(&panelsOpts.field, "field", "",
		"Output single field from a panel (label, visible, shortcut, level, backend)")
	panelsCmd.Flags().StringVar(&panelsOpts.template, "template", "",
		"Custom Go template for plain/dmenu output")
	panelsCmd.Flags().StringVar(&panelsOpts.separator, "separator", "",
		"Field separator for dmenu output")
	panelsCmd.Flags().BoolVar(&panelsOpts.noIndex, "no-index", false,
		"Omit the 1-based index prefix")
}

func runPanels(cmd *cobra.Command, args []string) error {
	client, err := dbus.NewClient()
	if err != nil {
		return err
	}

	panels, err := client.ListPanels()
	if err != nil {
		return err
	}

	// Single-panel lookup
	if len(args) > 0 {
		return handlePanelLookup(panels, args[0])
	}

	if panelsOpts.visible {
		panels = filterVisible(panels)
	}

	if len(panels) == 0 {
		logger.Debug("no panels to output")
		return nil
	}

	formatter := createPanelsFormatter()
	return formatter.FormatPanels(os.Stdout, panels)
}

// handlePanelLookup outputs one panel, or one of its fields.
func handlePanelLookup(panels []model.PanelStatus, label string) error {
	var match *model.PanelStatus
	for i := range panels {
		if panels[i].Label == label {
			match = &panels[i]
			break
		}
	}
	if match == nil {
		return fmt.Errorf("panel %q not found", label)
	}

	if panelsOpts.field != "" {
		fmt.Println(output.FormatPanelField(match, panelsOpts.field))
		return nil
	}

	formatter := createPanelsFormatter()
	return formatter.FormatPanels(os.Stdout, []model.PanelStatus{*match})
}

// filterVisible keeps only the visible panels.
func filterVisible(panels []model.PanelStatus) []model.PanelStatus {
	result := make([]model.PanelStatus, 0, len(panels))
	for _, ps := range panels {
		if ps.Visible {
			result = append(result, ps)
		}
	}
	return result
}

// createPanelsFormatter creates the output formatter based on options.
func createPanelsFormatter() output.Formatter {
	var format output.FormatType
	switch strings.ToLower(panelsOpts.format) {
	case "json":
		format = output.FormatJSON
	case "yaml":
		format = output.FormatYAML
	case "dmenu":
		format = output.FormatDmenu
	case "ids":
		format = output.FormatIDs
	default:
		format = output.FormatPlain
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = panelsOpts.template
	opts.ShowIndex = !panelsOpts.noIndex
	if panelsOpts.separator != "" {
		opts.Separator = panelsOpts.separator
	}

	return output.NewFormatter(format, opts)
}
