package panel

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jmylchreest/spot/internal/config"
	"github.com/jmylchreest/spot/internal/model"
	"github.com/jmylchreest/spot/internal/platform"
	"github.com/jmylchreest/spot/internal/shortcut"
)

// EventCallback receives panel lifecycle events after each transition.
type EventCallback func(event *model.Event)

// entry pairs a converted panel with the configuration it was built from.
type entry struct {
	panel    platform.Panel
	shortcut string
	autoHide bool
}

// Registry maps labels to converted panels with thread-safe operations.
// All callers looking up the same label share one panel handle.
type Registry struct {
	mu     sync.RWMutex
	panels map[string]*entry
	closed bool

	closeAccel string

	backend   platform.Backend
	shortcuts shortcut.Backend
	logger    *slog.Logger

	onEvent EventCallback
}

// NewRegistry creates a registry on top of the given platform and
// shortcut backends.
func NewRegistry(backend platform.Backend, shortcuts shortcut.Backend, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		panels:    make(map[string]*entry),
		backend:   backend,
		shortcuts: shortcuts,
		logger:    logger,
	}
}

// SetEventCallback sets the callback invoked after panel transitions.
// It must be set before the registry is used.
func (r *Registry) SetEventCallback(cb EventCallback) {
	r.onEvent = cb
}

// Backend returns the platform backend the registry converts with.
func (r *Registry) Backend() platform.Backend {
	return r.backend
}

// Init converts a window into a managed panel and wires its toggle
// shortcut. It is idempotent: a second call for an already managed label
// returns nil without converting or registering anything again. When the
// platform backend cannot convert, the window is left unmanaged and Init
// returns nil.
func (r *Registry) Init(win platform.Window, cfg config.WindowConfig, opts platform.Options) error {
	label := cfg.Label

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	if _, exists := r.panels[label]; exists {
		r.mu.Unlock()
		r.logger.Debug("panel already managed", "label", label)
		return nil
	}

	opts.StackingLevel = cfg.StackingLevel
	opts.AutoHide = cfg.AutoHideEnabled()
	if opts.AutoHide {
		// The observer carries only the label; the panel is resolved
		// fresh through Hide at callback time.
		opts.OnFocusLost = func(label string) {
			if err := r.Hide(label, model.SourceFocusLoss); err != nil {
				r.logger.Warn("auto-hide failed", "label", label, "error", err)
			}
		}
	}

	p, err := r.backend.Convert(win, opts)
	if err != nil {
		r.mu.Unlock()
		if errors.Is(err, platform.ErrUnsupported) {
			r.logger.Debug("window left unmanaged",
				"label", label,
				"backend", r.backend.Name(),
			)
			return nil
		}
		return err
	}
	r.panels[label] = &entry{panel: p, shortcut: cfg.Shortcut, autoHide: opts.AutoHide}
	r.mu.Unlock()

	// Shortcut wiring happens after the insert: a concurrent Init for the
	// same label has already returned on the exists check above, so the
	// toggle is registered exactly once per label.
	if cfg.Shortcut != "" {
		if err := r.registerToggle(label, cfg.Shortcut); err != nil {
			return err
		}
	}

	r.logger.Info("panel registered",
		"label", label,
		"shortcut", cfg.Shortcut,
		"auto_hide", opts.AutoHide,
	)
	r.emit(model.EventRegistered, label, model.SourceStartup)
	return nil
}

// registerToggle binds a per-panel shortcut. The handler decides show or
// hide from the panel's native visibility at press time.
func (r *Registry) registerToggle(label, accel string) error {
	err := r.shortcuts.Register(accel, func() {
		if err := r.Toggle(label, model.SourceShortcut); err != nil {
			r.logger.Warn("toggle shortcut failed", "label", label, "error", err)
		}
	})
	if err != nil {
		return &ShortcutError{Label: label, Accel: accel, Cause: err}
	}
	return nil
}

// RegisterCloseShortcut binds the global hide-all shortcut. The binding
// happens at most once: when the backend already holds the accelerator
// the call is skipped. A conflicting registration is a hard error.
func (r *Registry) RegisterCloseShortcut(accel string) error {
	if accel == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}
	if r.shortcuts.IsRegistered(accel) {
		r.logger.Debug("close shortcut already registered", "accel", accel)
		return nil
	}

	err := r.shortcuts.Register(accel, func() {
		if err := r.HideAll(model.SourceShortcut); err != nil {
			r.logger.Warn("close shortcut failed", "error", err)
		}
	})
	if err != nil {
		return &ShortcutError{Accel: accel, Cause: err}
	}
	r.closeAccel = accel

	r.logger.Info("close shortcut registered", "accel", accel)
	return nil
}

// CloseShortcut returns the accelerator bound to hide-all, if any.
func (r *Registry) CloseShortcut() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closeAccel
}

// Lookup returns the managed panel for a label. Every caller gets the
// same handle.
func (r *Registry) Lookup(label string) (platform.Panel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	e, exists := r.panels[label]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return e.panel, nil
}

// Show makes a panel visible without giving it keyboard focus. Labels
// with no managed panel are ignored. Nothing is called natively when the
// panel is already visible.
func (r *Registry) Show(label, source string) error {
	p, err := r.Lookup(label)
	if err != nil {
		return r.maskNotFound(err, "show", label)
	}
	if p.IsVisible() {
		return nil
	}
	p.Show()
	r.emit(model.EventShown, label, source)
	return nil
}

// Hide unmaps a panel. Labels with no managed panel are ignored. Nothing
// is called natively when the panel is already hidden.
func (r *Registry) Hide(label, source string) error {
	p, err := r.Lookup(label)
	if err != nil {
		return r.maskNotFound(err, "hide", label)
	}
	if !p.IsVisible() {
		return nil
	}
	p.Hide()
	r.emit(model.EventHidden, label, source)
	return nil
}

// Toggle shows or hides a panel based on its current native visibility,
// not on any cached flag, so external show and hide calls cannot cause
// the toggle to drift.
func (r *Registry) Toggle(label, source string) error {
	p, err := r.Lookup(label)
	if err != nil {
		return r.maskNotFound(err, "toggle", label)
	}
	if p.IsVisible() {
		p.Hide()
		r.emit(model.EventHidden, label, source)
	} else {
		p.Show()
		r.emit(model.EventShown, label, source)
	}
	return nil
}

// HideAll hides every visible panel. One hide-all event is recorded
// before the per-panel hidden events; nothing is recorded when no panel
// was visible.
func (r *Registry) HideAll(source string) error {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return ErrRegistryClosed
	}
	visible := make([]platform.Panel, 0, len(r.panels))
	for _, e := range r.panels {
		if e.panel.IsVisible() {
			visible = append(visible, e.panel)
		}
	}
	r.mu.RUnlock()

	if len(visible) == 0 {
		return nil
	}

	r.emit(model.EventHideAll, "", source)
	for _, p := range visible {
		p.Hide()
		r.emit(model.EventHidden, p.Label(), source)
	}

	r.logger.Debug("hid all panels", "count", len(visible), "source", source)
	return nil
}

// Visible reports whether the labelled panel is currently shown.
func (r *Registry) Visible(label string) (bool, error) {
	p, err := r.Lookup(label)
	if err != nil {
		return false, err
	}
	return p.IsVisible(), nil
}

// Labels returns the managed labels in sorted order.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.panels))
	for label := range r.panels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Status returns a snapshot of every managed panel, sorted by label.
func (r *Registry) Status() []model.PanelStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.PanelStatus, 0, len(r.panels))
	for label, e := range r.panels {
		out = append(out, model.PanelStatus{
			Label:         label,
			Visible:       e.panel.IsVisible(),
			Shortcut:      e.shortcut,
			StackingLevel: e.panel.StackingLevel(),
			AutoHide:      e.autoHide,
			Backend:       r.backend.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Count returns the number of managed panels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.panels)
}

// VisibleCount returns the number of currently visible panels.
func (r *Registry) VisibleCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.panels {
		if e.panel.IsVisible() {
			count++
		}
	}
	return count
}

// Close hides every panel and marks the registry unusable. Operations
// after Close fail with ErrRegistryClosed. Closing twice is a no-op.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	panels := r.panels
	r.panels = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range panels {
		if e.panel.IsVisible() {
			e.panel.Hide()
		}
	}

	r.logger.Debug("panel registry closed", "panels", len(panels))
	return nil
}

// maskNotFound downgrades a missing label to a logged no-op. Every other
// error, including ErrRegistryClosed, propagates unchanged.
func (r *Registry) maskNotFound(err error, op, label string) error {
	if errors.Is(err, ErrNotFound) {
		r.logger.Debug("ignoring unmanaged label", "op", op, "label", label)
		return nil
	}
	return err
}

// emit posts a lifecycle event to the callback.
func (r *Registry) emit(kind model.EventKind, label, source string) {
	if r.onEvent == nil {
		return
	}
	ev, err := model.NewEvent(kind, label, source)
	if err != nil {
		r.logger.Warn("failed to create event", "kind", string(kind), "error", err)
		return
	}
	r.onEvent(ev)
}

// Errors
var (
	// ErrRegistryClosed reports a registry that has been shut down. It is
	// never masked; callers treat it as fatal.
	ErrRegistryClosed = registryError("panel registry is closed")

	// ErrNotFound reports a label with no managed panel. Show, Hide and
	// Toggle mask it; queries return it unchanged.
	ErrNotFound = registryError("no panel for label")
)

type registryError string

func (e registryError) Error() string {
	return string(e)
}

// ShortcutError reports a failed shortcut registration, carrying the
// offending accelerator for the caller's diagnostics.
type ShortcutError struct {
	Label string
	Accel string
	Cause error
}

func (e *ShortcutError) Error() string {
	if e.Label != "" {
		return "failed to register shortcut " + e.Accel + " for panel " + e.Label + ": " + e.Cause.Error()
	}
	return "failed to register shortcut " + e.Accel + ": " + e.Cause.Error()
}

func (e *ShortcutError) Unwrap() error {
	return e.Cause
}
