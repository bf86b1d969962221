package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spot/internal/adapter/output"
	"github.com/jmylchreest/spot/internal/core"
	"github.com/jmylchreest/spot/internal/dbus"
	"github.com/jmylchreest/spot/internal/journal"
	"github.com/jmylchreest/spot/internal/model"
)

var eventsOpts struct {
	// Filter options
	filter string
	since  string
	label  string
	kind   string
	limit  int
	search string

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	template string
	noIndex  bool
	noTime   bool
	noSource bool
}

var eventsPruneOpts struct {
	olderThan string
	keep      int
	dryRun    bool
}

var eventsCmd = &cobra.Command{
	Use:   "events [index|id]",
	Short: "Browse the panel event journal",
	Long: `Browse the journal of panel transitions spotd records.

Every registration, show, hide and global close lands here with its
source (shortcut, focus-loss, dbus, startup). Without arguments, lists
all events newest first. With an index (1-based) or an ID prefix,
outputs that specific event.

Examples:
  # List all events
  spot events

  # The last ten transitions of the scratchpad panel
  spot events --label scratchpad --limit 10

  # Everything the global close shortcut did this week
  spot events --filter "kind=hide-all,timestamp>1w"

  # Hides caused by focus loss
  spot events --filter "source=focus-loss"

  # Inspect one event by index
  spot events 3 --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

var eventsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old events from the journal",
	Long: `Remove old events from the journal file.

Examples:
  # Remove events older than 7 days
  spot events prune --older-than 7d

  # Keep only the 100 most recent events
  spot events prune --keep 100

  # Preview what would be removed (dry run)
  spot events prune --older-than 48h --dry-run

A running daemon appends through its own file handle and will not see
the pruned file until it restarts. For a permanent cap, lower
journal.max_entries in the config instead.`,
	RunE: runEventsPrune,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsPruneCmd)

	// Filter flags
	eventsCmd.Flags().StringVar(&eventsOpts.filter, "filter", "",
		"Filter expression (e.g. \"label=scratchpad,kind=hidden\")")
	eventsCmd.Flags().StringVar(&eventsOpts.since, "since", "",
		"Show events from the last duration (e.g., 1h, 7d, 1w)")
	eventsCmd.Flags().StringVar(&eventsOpts.label, "label", "",
		"Filter by panel label (exact match)")
	eventsCmd.Flags().StringVar(&eventsOpts.kind, "kind", "",
		"Filter by event kind (registered, shown, hidden, hide-all)")
	eventsCmd.Flags().IntVarP(&eventsOpts.limit, "limit", "n", 0,
		"Maximum number of events to show (0=unlimited)")
	eventsCmd.Flags().StringVarP(&eventsOpts.search, "search", "s", "",
		"Search in label, kind and source")

	// Sort flags
	eventsCmd.Flags().StringVar(&eventsOpts.sortBy, "sort", "timestamp",
		"Sort by field (timestamp, label, kind)")
	eventsCmd.Flags().StringVar(&eventsOpts.sortOrder, "order", "desc",
		"Sort order (asc, desc)")

	// Output flags
	eventsCmd.Flags().StringVarP(&eventsOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, dmenu, ids)")
	eventsCmd.Flags().StringVar(&eventsOpts.template, "template", "",
		"Custom Go template for plain/dmenu output")
	eventsCmd.Flags().BoolVar(&eventsOpts.noIndex, "no-index", false,
		"Omit the 1-based index prefix")
	eventsCmd.Flags().BoolVar(&eventsOpts.noTime, "no-time", false,
		"Omit relative times")
	eventsCmd.Flags().BoolVar(&eventsOpts.noSource, "no-source", false,
		"Omit transition sources")

	// Prune flags
	eventsPruneCmd.Flags().StringVar(&eventsPruneOpts.olderThan, "older-than", "",
		"Remove events older than this duration (e.g., 48h, 7d, 1w)")
	eventsPruneCmd.Flags().IntVar(&eventsPruneOpts.keep, "keep", 0,
		"Keep only the N most recent events (0=unlimited)")
	eventsPruneCmd.Flags().BoolVar(&eventsPruneOpts.dryRun, "dry-run", false,
		"Show what would be removed without actually removing")
}

func runEvents(cmd *cobra.Command, args []string) error {
	events, err := loadJournalEvents()
	if err != nil {
		return err
	}

	// Sort before filtering so --limit keeps the most recent entries
	applyEventSort(events)

	if len(args) > 0 {
		return handleEventLookup(events, args[0])
	}

	events, err = applyEventFilters(events)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		logger.Debug("no events to output")
		return nil
	}

	formatter := createEventsFormatter()
	return formatter.FormatEvents(os.Stdout, events)
}

// loadJournalEvents reads all events from the journal file spotd writes.
func loadJournalEvents() ([]model.Event, error) {
	cfg, err := loadDaemonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	persistence, err := journal.NewJSONLPersistence(cfg.JournalPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer persistence.Close()

	events, err := persistence.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	logger.Debug("loaded journal", "events", len(events))
	return events, nil
}

// applyEventFilters applies filter options to events.
func applyEventFilters(events []model.Event) ([]model.Event, error) {
	if eventsOpts.filter != "" {
		expr, err := core.ParseFilter(eventsOpts.filter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
		events = core.FilterWithExpr(events, expr)
	}

	opts := core.FilterOptions{
		Label: eventsOpts.label,
		Limit: eventsOpts.limit,
	}

	// Parse since duration
	if eventsOpts.since != "" {
		d, err := core.ParseDuration(eventsOpts.since)
		if err != nil {
			logger.Warn("invalid since duration", "value", eventsOpts.since, "error", err)
		} else {
			opts.Since = d
		}
	}

	// Parse kind
	if eventsOpts.kind != "" {
		k, err := core.ParseKind(eventsOpts.kind)
		if err != nil {
			logger.Warn("invalid event kind", "value", eventsOpts.kind, "error", err)
		} else {
			opts.Kind = k
		}
	}

	events = core.Filter(events, opts)

	// Apply search if specified
	if eventsOpts.search != "" {
		events = core.Search(events, eventsOpts.search)
	}

	return events, nil
}

// applyEventSort sorts events based on options.
func applyEventSort(events []model.Event) {
	field, _ := core.ParseSortField(eventsOpts.sortBy)
	order, _ := core.ParseSortOrder(eventsOpts.sortOrder)

	core.Sort(events, core.SortOptions{
		Field: field,
		Order: order,
	})
}

// handleEventLookup handles single event lookup and output.
func handleEventLookup(events []model.Event, arg string) error {
	var ev *model.Event

	if idx, err := strconv.Atoi(arg); err == nil && idx > 0 {
		ev = core.LookupByIndex(events, idx)
		if ev == nil {
			return fmt.Errorf("event at index %d not found", idx)
		}
	} else {
		match, ambiguous := core.LookupByPrefix(events, arg)
		if ambiguous {
			return fmt.Errorf("event ID prefix %q matches more than one event", arg)
		}
		if match == nil {
			return fmt.Errorf("event with ID %s not found", arg)
		}
		ev = match
	}

	// Output as JSON by default for a single event
	if eventsOpts.format == "plain" {
		eventsOpts.format = "json"
	}

	formatter := createEventsFormatter()
	return formatter.FormatEvents(os.Stdout, []model.Event{*ev})
}

// createEventsFormatter creates the output formatter based on options.
func createEventsFormatter() output.Formatter {
	var format output.FormatType
	switch strings.ToLower(eventsOpts.format) {
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
	opts.Template = eventsOpts.template
	opts.ShowIndex = !eventsOpts.noIndex
	opts.ShowTime = !eventsOpts.noTime
	opts.ShowSource = !eventsOpts.noSource

	return output.NewFormatter(format, opts)
}

func runEventsPrune(cmd *cobra.Command, args []string) error {
	if eventsPruneOpts.olderThan == "" && eventsPruneOpts.keep == 0 {
		return fmt.Errorf("specify --older-than or --keep")
	}

	cfg, err := loadDaemonConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	persistence, err := journal.NewJSONLPersistence(cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer persistence.Close()

	events, err := persistence.Load()
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No events in journal")
		return nil
	}

	// Sort by timestamp (newest first)
	core.Sort(events, core.SortOptions{
		Field: core.SortByTimestamp,
		Order: core.SortDesc,
	})

	// Determine which to remove
	var toRemove []model.Event

	if eventsPruneOpts.olderThan != "" {
		duration, err := core.ParseDuration(eventsPruneOpts.olderThan)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		cutoff := time.Now().Add(-duration)
		for _, e := range events {
			if time.Unix(e.Timestamp, 0).Before(cutoff) {
				toRemove = append(toRemove, e)
			}
		}
	}

	if eventsPruneOpts.keep > 0 && len(events) > eventsPruneOpts.keep {
		// Remove the oldest ones beyond the keep limit
		keepSet := make(map[string]bool)
		for i := 0; i < eventsPruneOpts.keep && i < len(events); i++ {
			keepSet[events[i].ID] = true
		}

		for _, e := range events {
			if !keepSet[e.ID] {
				// Avoid duplicates if also removed by older-than
				found := false
				for _, r := range toRemove {
					if r.ID == e.ID {
						found = true
						break
					}
				}
				if !found {
					toRemove = append(toRemove, e)
				}
			}
		}
	}

	if len(toRemove) == 0 {
		fmt.Println("No events to remove")
		return nil
	}

	if eventsPruneOpts.dryRun {
		fmt.Printf("Would remove %d event(s):\n", len(toRemove))
		for i, e := range toRemove {
			if i >= 10 {
				fmt.Printf("  ... and %d more\n", len(toRemove)-10)
				break
			}
			fmt.Printf("  - %s\n", describeEvent(&e))
		}
		return nil
	}

	// A running daemon appends through its own handle and would clobber
	// the rewritten file with stale entries on its next trim.
	if client, err := dbus.NewClient(); err == nil {
		if err := client.Ping(); err == nil {
			fmt.Fprintln(os.Stderr,
				"Warning: spotd is running; events recorded after this prune may be lost until it restarts")
		}
	}

	removeSet := make(map[string]bool, len(toRemove))
	for _, e := range toRemove {
		removeSet[e.ID] = true
	}

	kept := make([]model.Event, 0, len(events)-len(toRemove))
	for _, e := range events {
		if !removeSet[e.ID] {
			kept = append(kept, e)
		}
	}

	// The file stays in append order (oldest first)
	core.Sort(kept, core.SortOptions{
		Field: core.SortByTimestamp,
		Order: core.SortAsc,
	})

	if err := persistence.Rewrite(kept); err != nil {
		return fmt.Errorf("failed to rewrite journal: %w", err)
	}

	fmt.Printf("Removed %d event(s)\n", len(toRemove))
	return nil
}

// describeEvent renders one event for prune previews.
func describeEvent(e *model.Event) string {
	if e.Label == "" {
		return fmt.Sprintf("%s (%s)", e.Kind, e.RelativeTime())
	}
	return fmt.Sprintf("<%s> %s (%s)", e.Label, e.Kind, e.RelativeTime())
}
