// Package core provides filtering, sorting, and lookup logic for events.
package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/spot/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByTimestamp SortField = "timestamp"
	SortByLabel     SortField = "label"
	SortByKind      SortField = "kind"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (newest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByTimestamp,
		Order: SortDesc,
	}
}

// Sort sorts events in place based on the provided options.
func Sort(events []model.Event, opts SortOptions) {
	if len(events) == 0 {
		return
	}

	sort.SliceStable(events, func(i, j int) bool {
		var less bool

		switch opts.Field {
		case SortByTimestamp:
			less = events[i].Timestamp < events[j].Timestamp
		case SortByLabel:
			less = strings.ToLower(events[i].Label) < strings.ToLower(events[j].Label)
		case SortByKind:
			less = events[i].Kind < events[j].Kind
		default:
			less = events[i].Timestamp < events[j].Timestamp
		}

		if opts.Order == SortDesc {
			return !less
		}
		return less
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "timestamp", "time", "t":
		return SortByTimestamp, nil
	case "label", "panel", "l":
		return SortByLabel, nil
	case "kind", "k":
		return SortByKind, nil
	default:
		return SortByTimestamp, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortDesc, nil
	}
}
