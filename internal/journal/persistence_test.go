package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/spot/internal/model"
)

func TestNewJSONLPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "spot_schema_version")
}

func TestNewJSONLPersistence_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "nested", "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestJSONLPersistence_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	ev1 := testEvent(model.EventShown, "main")
	ev2 := testEvent(model.EventHidden, "main")

	require.NoError(t, p.Append(*ev1))
	require.NoError(t, p.Append(*ev2))

	events, err := p.Load()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ev1.ID, events[0].ID)
	assert.Equal(t, ev2.ID, events[1].ID)
	assert.Equal(t, model.EventShown, events[0].Kind)

	p.Close()
}

func TestJSONLPersistence_LoadSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	ev := testEvent(model.EventRegistered, "scratch")
	require.NoError(t, p.Append(*ev))
	require.NoError(t, p.Close())

	// Reopen, the header must not be written twice
	p2, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p2.Close()

	events, err := p2.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
}

func TestJSONLPersistence_LoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	require.NoError(t, p.Append(*testEvent(model.EventShown, "main")))
	require.NoError(t, p.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	p2, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p2.Close()

	events, err := p2.Load()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestJSONLPersistence_Rewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Append(*testEvent(model.EventShown, "old1")))
	require.NoError(t, p.Append(*testEvent(model.EventShown, "old2")))
	require.NoError(t, p.Append(*testEvent(model.EventShown, "old3")))

	kept := testEvent(model.EventShown, "kept")
	require.NoError(t, p.Rewrite([]model.Event{*kept}))

	events, err := p.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, kept.ID, events[0].ID)

	// Backup is removed after a successful rewrite
	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestJSONLPersistence_Clear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Append(*testEvent(model.EventShown, "main")))
	require.NoError(t, p.Clear())

	events, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, events)

	// Header is back in place
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "spot_schema_version")
}

func TestJSONLPersistence_Close(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err = p.Append(*testEvent(model.EventShown, "main"))
	assert.ErrorIs(t, err, ErrPersistenceClosed)

	_, err = p.Load()
	assert.ErrorIs(t, err, ErrPersistenceClosed)
}

func TestJournal_WithPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	j := NewJournal(p, 10)
	ev := testEvent(model.EventShown, "main")
	require.NoError(t, j.Append(ev))
	require.NoError(t, j.Close())

	// A fresh journal hydrates from the same file
	p2, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	j2 := NewJournal(p2, 10)
	defer j2.Close()

	require.NoError(t, j2.Hydrate())
	assert.Equal(t, 1, j2.Count())
	found := j2.GetByID(ev.ID)
	require.NotNil(t, found)
	assert.Equal(t, "main", found.Label)
}

func TestJournal_HydrateKeepsNewestWithinCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 6; i++ {
		ev := testEvent(model.EventShown, "main")
		require.NoError(t, p.Append(*ev))
		ids = append(ids, ev.ID)
	}
	require.NoError(t, p.Close())

	p2, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	j := NewJournal(p2, 3)
	defer j.Close()

	require.NoError(t, j.Hydrate())
	assert.Equal(t, 3, j.Count())
	assert.Nil(t, j.GetByID(ids[0]))
	assert.NotNil(t, j.GetByID(ids[5]))
}
