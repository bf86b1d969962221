package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/spot/internal/config"
)

const watcherConfigTOML = `
global_close_shortcut = "Escape"

[[windows]]
label = "scratchpad"
shortcut = "ctrl+space"
title = "Scratch"

[defaults]
width = 800
height = 500
position = "top"

[log]
level = "info"
`

const watcherConfigUpdatedTOML = `
global_close_shortcut = "Escape"

[[windows]]
label = "scratchpad"
shortcut = "ctrl+space"
title = "Scratch"

[defaults]
width = 800
height = 500
position = "top"

[log]
level = "debug"
`

func writeConfigFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestWatcher(t *testing.T) (*ConfigWatcher, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "spotd.toml")
	writeConfigFile(t, path, watcherConfigTOML)

	w, err := NewConfigWatcherFor(path, nil)
	require.NoError(t, err)
	w.SetDebounce(30 * time.Millisecond)
	t.Cleanup(func() { _ = w.Stop() })

	return w, path
}

func startTestWatcher(t *testing.T, w *ConfigWatcher, path string) *config.DaemonConfig {
	t.Helper()

	initial, err := config.LoadDaemonConfigFrom(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(initial))
	return initial
}

func TestConfigWatcher_ReloadOnChange(t *testing.T) {
	w, path := newTestWatcher(t)

	reloaded := make(chan *config.DaemonConfig, 4)
	w.SetReloadCallback(func(c *config.DaemonConfig) { reloaded <- c })

	initial := startTestWatcher(t, w, path)
	require.Equal(t, "info", initial.Log.Level)
	require.Equal(t, initial, w.GetCurrentConfig())

	writeConfigFile(t, path, watcherConfigUpdatedTOML)

	select {
	case c := <-reloaded:
		assert.Equal(t, "debug", c.Log.Level)
		assert.Equal(t, "debug", w.GetCurrentConfig().Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestConfigWatcher_InvalidConfigKeepsCurrent(t *testing.T) {
	w, path := newTestWatcher(t)

	errs := make(chan error, 4)
	w.SetErrorCallback(func(err error) { errs <- err })
	reloaded := make(chan *config.DaemonConfig, 4)
	w.SetReloadCallback(func(c *config.DaemonConfig) { reloaded <- c })

	startTestWatcher(t, w, path)

	writeConfigFile(t, path, "[defaults]\nposition = \"diagonal\"\n")

	select {
	case err := <-errs:
		assert.ErrorContains(t, err, "invalid position")
	case <-time.After(5 * time.Second):
		t.Fatal("no error callback observed")
	}

	// The failing file never replaces the current config.
	assert.Equal(t, "info", w.GetCurrentConfig().Log.Level)
	select {
	case <-reloaded:
		t.Fatal("reload callback fired for invalid config")
	default:
	}
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	w, path := newTestWatcher(t)

	reloaded := make(chan *config.DaemonConfig, 4)
	w.SetReloadCallback(func(c *config.DaemonConfig) { reloaded <- c })

	startTestWatcher(t, w, path)

	// A sibling file in the watched directory must not trigger a reload.
	sibling := filepath.Join(filepath.Dir(path), "notes.txt")
	writeConfigFile(t, sibling, "unrelated")

	select {
	case <-reloaded:
		t.Fatal("reload fired for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcher_StartStopIdempotent(t *testing.T) {
	w, path := newTestWatcher(t)

	startTestWatcher(t, w, path)
	require.NoError(t, w.Start(w.GetCurrentConfig()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestConfigWatcher_Path(t *testing.T) {
	w, path := newTestWatcher(t)
	assert.Equal(t, path, w.Path())
}
