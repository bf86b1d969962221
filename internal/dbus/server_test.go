package dbus

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/spot/internal/model"
	"github.com/jmylchreest/spot/internal/panel"
)

// fakeController mimics the registry's masking semantics: Show/Hide/Toggle
// swallow unknown labels, Visible reports them.
type fakeController struct {
	mu      sync.Mutex
	visible map[string]bool
	closed  bool
	sources []string
}

func newFakeController(labels ...string) *fakeController {
	f := &fakeController{visible: make(map[string]bool)}
	for _, l := range labels {
		f.visible[l] = false
	}
	return f
}

func (f *fakeController) Show(label, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return panel.ErrRegistryClosed
	}
	f.sources = append(f.sources, source)
	if _, ok := f.visible[label]; ok {
		f.visible[label] = true
	}
	return nil
}

func (f *fakeController) Hide(label, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return panel.ErrRegistryClosed
	}
	f.sources = append(f.sources, source)
	if _, ok := f.visible[label]; ok {
		f.visible[label] = false
	}
	return nil
}

func (f *fakeController) Toggle(label, source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return panel.ErrRegistryClosed
	}
	f.sources = append(f.sources, source)
	if v, ok := f.visible[label]; ok {
		f.visible[label] = !v
	}
	return nil
}

func (f *fakeController) HideAll(source string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return panel.ErrRegistryClosed
	}
	f.sources = append(f.sources, source)
	for l := range f.visible {
		f.visible[l] = false
	}
	return nil
}

func (f *fakeController) Visible(label string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false, panel.ErrRegistryClosed
	}
	v, ok := f.visible[label]
	if !ok {
		return false, fmt.Errorf("%w: %q", panel.ErrNotFound, label)
	}
	return v, nil
}

func (f *fakeController) Status() []model.PanelStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.PanelStatus, 0, len(f.visible))
	for l, v := range f.visible {
		out = append(out, model.PanelStatus{Label: l, Visible: v, Backend: "fake"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func (f *fakeController) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visible)
}

func (f *fakeController) VisibleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.visible {
		if v {
			n++
		}
	}
	return n
}

func newTestServer(labels ...string) (*PanelServer, *fakeController) {
	ctrl := newFakeController(labels...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPanelServer(ctrl, logger), ctrl
}

func TestPanelServer_ShowUnknownIsNoOp(t *testing.T) {
	srv, _ := newTestServer("scratchpad")

	assert.Nil(t, srv.Show("ghost"))
	assert.Nil(t, srv.Hide("ghost"))
}

func TestPanelServer_ShowUsesDBusSource(t *testing.T) {
	srv, ctrl := newTestServer("scratchpad")

	require.Nil(t, srv.Show("scratchpad"))
	require.Len(t, ctrl.sources, 1)
	assert.Equal(t, model.SourceDBus, ctrl.sources[0])
}

func TestPanelServer_ToggleReturnsResultingState(t *testing.T) {
	srv, _ := newTestServer("scratchpad")

	visible, derr := srv.Toggle("scratchpad")
	require.Nil(t, derr)
	assert.True(t, visible)

	visible, derr = srv.Toggle("scratchpad")
	require.Nil(t, derr)
	assert.False(t, visible)
}

func TestPanelServer_ToggleUnknownFails(t *testing.T) {
	srv, _ := newTestServer("scratchpad")

	_, derr := srv.Toggle("ghost")
	require.NotNil(t, derr)
	assert.Equal(t, errUnknownPanel, derr.Name)
	assert.Contains(t, errorBody(*derr), "ghost")
}

func TestPanelServer_ClosedRegistry(t *testing.T) {
	srv, ctrl := newTestServer("scratchpad")
	ctrl.closed = true

	derr := srv.Show("scratchpad")
	require.NotNil(t, derr)
	assert.Equal(t, errClosed, derr.Name)

	_, derr = srv.Toggle("scratchpad")
	require.NotNil(t, derr)
	assert.Equal(t, errClosed, derr.Name)
}

func TestPanelServer_HideAll(t *testing.T) {
	srv, ctrl := newTestServer("scratchpad", "notes")
	require.Nil(t, srv.Show("scratchpad"))
	require.Nil(t, srv.Show("notes"))

	require.Nil(t, srv.HideAll())
	assert.Equal(t, 0, ctrl.VisibleCount())
}

func TestPanelServer_ListPanels(t *testing.T) {
	srv, _ := newTestServer("scratchpad", "notes")
	require.Nil(t, srv.Show("notes"))

	raw, derr := srv.ListPanels()
	require.Nil(t, derr)
	require.Len(t, raw, 2)

	first := PanelStatusFromVariant(raw[0])
	assert.Equal(t, "notes", first.Label)
	assert.True(t, first.Visible)

	second := PanelStatusFromVariant(raw[1])
	assert.Equal(t, "scratchpad", second.Label)
	assert.False(t, second.Visible)
}

func TestPanelServer_GetStatus(t *testing.T) {
	srv, _ := newTestServer("scratchpad", "notes")
	srv.SetServerInfo(ServerInfo{
		Version:       "0.3.0",
		Backend:       "layer-shell",
		BackendDetail: "wlr-layer-shell available",
	})
	require.Nil(t, srv.Show("notes"))

	raw, derr := srv.GetStatus()
	require.Nil(t, derr)

	status := DaemonStatusFromVariant(raw)
	assert.True(t, status.Running)
	assert.Equal(t, "0.3.0", status.Version)
	assert.Equal(t, "layer-shell", status.Backend)
	assert.Equal(t, 2, status.PanelCount)
	assert.Equal(t, 1, status.VisibleCount)
}
