package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_InvalidatesCacheOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cue.wav")
	err := os.WriteFile(path, []byte("v1"), 0644)
	require.NoError(t, err)

	player := NewPlayer(nil)
	player.cache[path] = &cachedSound{path: path}

	w := NewWatcher(player, nil)
	w.Watch(path)

	// Unchanged file leaves the cache alone.
	w.checkForChanges()
	assert.Contains(t, player.cache, path)

	// Bump the modification time past the recorded one.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	w.checkForChanges()
	assert.NotContains(t, player.cache, path)
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cue.wav")
	err := os.WriteFile(path, []byte("v1"), 0644)
	require.NoError(t, err)

	w := NewWatcher(NewPlayer(nil), nil)

	w.Watch("")
	assert.Empty(t, w.watchedPaths)

	w.Watch(path)
	assert.Contains(t, w.watchedPaths, path)

	// Missing files are tracked with a zero time so they register once created.
	missing := filepath.Join(dir, "missing.wav")
	w.Watch(missing)
	assert.True(t, w.watchedPaths[missing].IsZero())

	w.Unwatch(path)
	assert.NotContains(t, w.watchedPaths, path)
}

func TestWatcher_StartStop(t *testing.T) {
	w := NewWatcher(NewPlayer(nil), nil)
	w.SetPollInterval(10 * time.Millisecond)

	err := w.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, w.IsRunning())

	// Starting twice is a no-op.
	err = w.Start(context.Background())
	require.NoError(t, err)

	w.Stop()
	assert.False(t, w.IsRunning())

	// Stopping twice is safe.
	w.Stop()
}
