// Package model defines the core data structures for spot.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventKind identifies a panel lifecycle transition.
type EventKind string

const (
	// EventRegistered is recorded when a window is converted to a panel.
	EventRegistered EventKind = "registered"
	// EventShown is recorded when a panel becomes visible.
	EventShown EventKind = "shown"
	// EventHidden is recorded when a panel is hidden.
	EventHidden EventKind = "hidden"
	// EventHideAll is recorded once per global close, before the
	// individual hidden events of the panels it affected.
	EventHideAll EventKind = "hide-all"
)

// EventKinds lists all valid kinds in a stable order.
var EventKinds = []EventKind{EventRegistered, EventShown, EventHidden, EventHideAll}

// Valid reports whether the kind is one of the known transitions.
func (k EventKind) Valid() bool {
	switch k {
	case EventRegistered, EventShown, EventHidden, EventHideAll:
		return true
	}
	return false
}

// Event sources. Source records which entry point caused a transition.
const (
	SourceShortcut  = "shortcut"
	SourceFocusLoss = "focus-loss"
	SourceDBus      = "dbus"
	SourceStartup   = "startup"
)

// Event represents a single panel lifecycle transition.
// This is the normalized format stored in the journal and used by the CLI
// and TUI listings.
type Event struct {
	// ID is a ULID; its timestamp component makes IDs sortable by time.
	ID string `json:"id"`

	// Label of the panel the transition applies to. Empty for hide-all.
	Label string `json:"label,omitempty"`

	Kind EventKind `json:"kind"`

	// Source names the entry point that caused the transition
	// (shortcut, focus-loss, dbus, startup).
	Source string `json:"source,omitempty"`

	// Timestamp is the transition time as a unix timestamp.
	Timestamp int64 `json:"timestamp"`
}

// Validation errors.
var (
	ErrEmptyEventID     = errors.New("event id cannot be empty")
	ErrInvalidEventKind = errors.New("event kind is not a known transition")
	ErrInvalidTimestamp = errors.New("timestamp must be greater than 0")
)

// NewEvent creates an Event with a generated ULID and the current time.
func NewEvent(kind EventKind, label, source string) (*Event, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Event{
		ID:        id.String(),
		Label:     label,
		Kind:      kind,
		Source:    source,
		Timestamp: now.Unix(),
	}, nil
}

// Validate checks that the event has all required fields.
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrEmptyEventID
	}
	if !e.Kind.Valid() {
		return ErrInvalidEventKind
	}
	if e.Timestamp <= 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// Time returns the timestamp as a time.Time.
func (e *Event) Time() time.Time {
	return time.Unix(e.Timestamp, 0)
}

// RelativeTime returns a human-readable relative time string.
// Examples: "just now", "5m ago", "2h ago", "1d ago".
func (e *Event) RelativeTime() string {
	diff := time.Now().Unix() - e.Timestamp

	if diff < 0 {
		return "in the future"
	}
	if diff < 60 {
		return "just now"
	}
	if diff < 3600 {
		return fmt.Sprintf("%dm ago", diff/60)
	}
	if diff < 86400 {
		return fmt.Sprintf("%dh ago", diff/3600)
	}
	return fmt.Sprintf("%dd ago", diff/86400)
}

// Clone creates a copy of the event.
func (e *Event) Clone() *Event {
	clone := *e
	return &clone
}
