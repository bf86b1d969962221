// Package journal keeps the in-memory history of panel lifecycle events
// with optional JSONL persistence.
package journal

import (
	"sort"
	"sync"

	"github.com/jmylchreest/spot/internal/model"
)

// DefaultMaxEntries caps the journal when no limit is configured.
const DefaultMaxEntries = 500

// Journal records panel lifecycle events with thread-safe operations.
// It keeps at most maxEntries events in memory, dropping the oldest.
type Journal struct {
	mu     sync.RWMutex
	events []model.Event
	index  map[string]int // event id -> slice index

	maxEntries  int
	persistence Persistence
	fileEntries int // lines appended to the file since the last rewrite

	subscribers []chan model.Event
	closed      bool
}

// NewJournal creates a journal. A nil persistence keeps events in memory
// only; maxEntries <= 0 selects DefaultMaxEntries.
func NewJournal(persistence Persistence, maxEntries int) *Journal {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Journal{
		events:      make([]model.Event, 0),
		index:       make(map[string]int),
		maxEntries:  maxEntries,
		persistence: persistence,
		subscribers: make([]chan model.Event, 0),
	}
}

// Append records an event, persists it and notifies subscribers.
// Events already present by id are skipped.
func (j *Journal) Append(ev *model.Event) error {
	if ev == nil {
		return nil
	}
	if err := ev.Validate(); err != nil {
		return err
	}

	j.mu.Lock()

	if j.closed {
		j.mu.Unlock()
		return ErrJournalClosed
	}

	if _, exists := j.index[ev.ID]; exists {
		j.mu.Unlock()
		return nil
	}

	j.index[ev.ID] = len(j.events)
	j.events = append(j.events, *ev)

	if j.persistence != nil {
		if err := j.persistence.Append(*ev); err != nil {
			j.mu.Unlock()
			return err
		}
		j.fileEntries++
	}

	if err := j.enforceCapLocked(); err != nil {
		j.mu.Unlock()
		return err
	}

	subscribers := j.subscribers
	event := *ev
	j.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not draining, skip
		}
	}

	return nil
}

// enforceCapLocked trims memory to maxEntries and rewrites the file once
// it holds twice the cap, keeping it bounded without a rewrite per
// append. Caller must hold the lock.
func (j *Journal) enforceCapLocked() error {
	if len(j.events) > j.maxEntries {
		drop := len(j.events) - j.maxEntries
		j.events = append(make([]model.Event, 0, j.maxEntries), j.events[drop:]...)
		j.rebuildIndexLocked()
	}

	if j.persistence != nil && j.fileEntries >= 2*j.maxEntries {
		if err := j.persistence.Rewrite(j.events); err != nil {
			return err
		}
		j.fileEntries = len(j.events)
	}
	return nil
}

// rebuildIndexLocked recomputes the id index. Caller must hold the lock.
func (j *Journal) rebuildIndexLocked() {
	j.index = make(map[string]int, len(j.events))
	for i, ev := range j.events {
		j.index[ev.ID] = i
	}
}

// SetMaxEntries changes the retention cap and enforces it immediately.
// n <= 0 selects DefaultMaxEntries.
func (j *Journal) SetMaxEntries(n int) error {
	if n <= 0 {
		n = DefaultMaxEntries
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}
	j.maxEntries = n
	return j.enforceCapLocked()
}

// All returns every event, newest first. ULIDs break timestamp ties.
func (j *Journal) All() []model.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]model.Event, len(j.events))
	copy(result, j.events)

	sort.Slice(result, func(i, k int) bool {
		if result[i].Timestamp != result[k].Timestamp {
			return result[i].Timestamp > result[k].Timestamp
		}
		return result[i].ID > result[k].ID
	})

	return result
}

// Recent returns up to n events, newest first.
func (j *Journal) Recent(n int) []model.Event {
	all := j.All()
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// GetByID returns an event by its ULID.
func (j *Journal) GetByID(id string) *model.Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if idx, exists := j.index[id]; exists {
		ev := j.events[idx]
		return &ev
	}
	return nil
}

// Count returns the number of recorded events.
func (j *Journal) Count() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}

// Hydrate loads events from persistence, keeping the newest maxEntries.
func (j *Journal) Hydrate() error {
	if j.persistence == nil {
		return nil
	}

	events, err := j.persistence.Load()
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}

	for i := range events {
		ev := events[i]
		if ev.Validate() != nil {
			continue
		}
		if _, exists := j.index[ev.ID]; exists {
			continue
		}
		j.index[ev.ID] = len(j.events)
		j.events = append(j.events, ev)
	}
	j.fileEntries = len(j.events)

	if len(j.events) > j.maxEntries {
		drop := len(j.events) - j.maxEntries
		j.events = append(make([]model.Event, 0, j.maxEntries), j.events[drop:]...)
		j.rebuildIndexLocked()
	}

	return nil
}

// Clear removes all events from memory and persistence.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}

	j.events = make([]model.Event, 0)
	j.index = make(map[string]int)
	j.fileEntries = 0

	if j.persistence != nil {
		return j.persistence.Clear()
	}
	return nil
}

// Subscribe returns a channel receiving every appended event. Slow
// subscribers miss events instead of blocking Append.
func (j *Journal) Subscribe() <-chan model.Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	ch := make(chan model.Event, 16)
	j.subscribers = append(j.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (j *Journal) Unsubscribe(ch <-chan model.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, sub := range j.subscribers {
		if sub == ch {
			j.subscribers = append(j.subscribers[:i], j.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close closes all subscriber channels and the persistence file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true

	for _, ch := range j.subscribers {
		close(ch)
	}
	j.subscribers = nil

	if j.persistence != nil {
		return j.persistence.Close()
	}
	return nil
}

// Errors
var (
	ErrJournalClosed = journalError("journal is closed")
)

type journalError string

func (e journalError) Error() string {
	return string(e)
}
