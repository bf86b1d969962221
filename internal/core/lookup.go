// Package core provides filtering, sorting, and lookup logic for events.
package core

import (
	"strings"

	"github.com/jmylchreest/spot/internal/model"
)

// LookupByID finds an event by its full ULID.
// Returns nil if not found.
func LookupByID(events []model.Event, id string) *model.Event {
	for i := range events {
		if events[i].ID == id {
			return &events[i]
		}
	}
	return nil
}

// LookupByPrefix finds the single event whose ID starts with the given
// prefix. ULIDs are long, so a few leading characters usually suffice.
// Returns (nil, false) when nothing matches or the prefix is empty, and
// (nil, true) when the prefix matches more than one event.
func LookupByPrefix(events []model.Event, prefix string) (match *model.Event, ambiguous bool) {
	if prefix == "" {
		return nil, false
	}

	prefix = strings.ToUpper(prefix)
	for i := range events {
		if strings.HasPrefix(events[i].ID, prefix) {
			if match != nil {
				return nil, true
			}
			match = &events[i]
		}
	}
	return match, false
}

// LookupByIndex finds an event by its index (1-based for user-friendliness).
// Returns nil if index is out of bounds.
func LookupByIndex(events []model.Event, index int) *model.Event {
	// Convert to 0-based
	idx := index - 1
	if idx < 0 || idx >= len(events) {
		return nil
	}
	return &events[idx]
}

// Search finds events matching a search term in label, kind, or source.
// Case-insensitive substring match.
func Search(events []model.Event, term string) []model.Event {
	if term == "" {
		return events
	}

	term = strings.ToLower(term)
	var result []model.Event

	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Label), term) ||
			strings.Contains(strings.ToLower(string(e.Kind)), term) ||
			strings.Contains(strings.ToLower(e.Source), term) {
			result = append(result, e)
		}
	}

	return result
}

// UniqueLabels returns a sorted list of unique panel labels from events.
func UniqueLabels(events []model.Event) []string {
	seen := make(map[string]bool)
	var labels []string

	for _, e := range events {
		if e.Label != "" && !seen[e.Label] {
			seen[e.Label] = true
			labels = append(labels, e.Label)
		}
	}

	// Sort alphabetically
	sortStrings(labels)
	return labels
}

// sortStrings sorts strings in place (simple insertion sort for small lists).
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && strings.ToLower(s[j]) < strings.ToLower(s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
