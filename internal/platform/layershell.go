package platform

import (
	"log/slog"
	"sync/atomic"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/spot/internal/config"
)

// GtkWindow pairs a GTK4 window with its registry label. It is the only
// window type the layer-shell backend accepts.
type GtkWindow struct {
	label string
	win   *gtk.Window
}

// NewGtkWindow wraps a GTK window for conversion.
func NewGtkWindow(label string, win *gtk.Window) *GtkWindow {
	return &GtkWindow{label: label, win: win}
}

// Label returns the registry identifier for the window.
func (w *GtkWindow) Label() string { return w.label }

// Window returns the underlying GTK window.
func (w *GtkWindow) Window() *gtk.Window { return w.win }

// LayerShellBackend converts GTK windows into layer-shell surfaces on
// Wayland compositors that implement wlr-layer-shell.
type LayerShellBackend struct {
	logger *slog.Logger
}

// NewLayerShellBackend creates a layer-shell backend.
func NewLayerShellBackend(logger *slog.Logger) *LayerShellBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayerShellBackend{logger: logger}
}

// Name identifies the backend in logs and status output.
func (b *LayerShellBackend) Name() string { return "layer-shell" }

// Available reports whether the compositor supports layer-shell.
func (b *LayerShellBackend) Available() (bool, string) {
	if !layershell.IsSupported() {
		return false, "compositor does not support the wlr-layer-shell protocol"
	}
	return true, ""
}

// Convert turns a GTK window into a non-activating overlay panel.
// It must run on the GTK main loop, before the window is first mapped.
func (b *LayerShellBackend) Convert(win Window, opts Options) (Panel, error) {
	gw, ok := win.(*GtkWindow)
	if !ok {
		return nil, ErrWindowType
	}
	if supported, _ := b.Available(); !supported {
		return nil, ErrUnsupported
	}

	level := ResolveLevel(opts.StackingLevel)
	window := gw.win

	layershell.InitForWindow(window)
	layershell.SetLayer(window, layerForLevel(level))
	layershell.SetExclusiveZone(window, 0) // Don't reserve space
	// On-demand keyboard focus: the panel can take input when clicked but
	// never steals focus from the active surface when shown.
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeOnDemand)
	layershell.SetNamespace(window, "spot-"+gw.label)

	applyAnchors(window, opts.Position, opts.Margin)

	// Closing the window must hide it, not destroy it; the panel handle
	// stays valid for the lifetime of the daemon.
	window.SetHideOnClose(true)

	p := &LayerPanel{
		label:  gw.label,
		win:    window,
		level:  level,
		logger: b.logger,
	}

	// Visibility tracks the surface's mapped state, not a locally cached
	// intent, so external show/hide calls cannot cause drift.
	window.ConnectMap(func() { p.visible.Store(true) })
	window.ConnectUnmap(func() { p.visible.Store(false) })

	if opts.AutoHide {
		onFocusLost := opts.OnFocusLost
		window.NotifyProperty("is-active", func() {
			if window.IsActive() || !p.visible.Load() {
				return
			}
			b.logger.Debug("panel lost focus", "label", gw.label)
			if onFocusLost != nil {
				onFocusLost(gw.label)
			}
		})
	}

	b.logger.Debug("converted window to layer-shell panel",
		"label", gw.label,
		"level", level,
		"position", string(opts.Position),
		"auto_hide", opts.AutoHide,
	)

	return p, nil
}

// LayerPanel is a GTK window managed as a layer-shell surface.
// Show and Hide marshal onto the GTK main loop and may be called from
// any goroutine.
type LayerPanel struct {
	label   string
	win     *gtk.Window
	level   int
	logger  *slog.Logger
	visible atomic.Bool
}

// Label returns the panel's registry identifier.
func (p *LayerPanel) Label() string { return p.label }

// StackingLevel returns the resolved stacking level.
func (p *LayerPanel) StackingLevel() int { return p.level }

// IsVisible reports whether the panel surface is currently mapped.
func (p *LayerPanel) IsVisible() bool { return p.visible.Load() }

// Show presents the panel without giving it keyboard focus.
func (p *LayerPanel) Show() {
	glib.IdleAdd(func() {
		p.win.Present()
	})
}

// Hide unmaps the panel. The window object is kept for later re-show.
func (p *LayerPanel) Hide() {
	glib.IdleAdd(func() {
		p.win.SetVisible(false)
	})
}

// layerForLevel maps a resolved stacking level onto a layer-shell layer.
func layerForLevel(level int) layershell.LayerShellLayer {
	switch {
	case level <= LevelBackground:
		return layershell.LayerShellLayerBackground
	case level == LevelBottom:
		return layershell.LayerShellLayerBottom
	case level == LevelTop:
		return layershell.LayerShellLayerTop
	default:
		return layershell.LayerShellLayerOverlay
	}
}

// applyAnchors sets the layer-shell anchors and margins for a position.
// An unanchored surface is centered by the compositor.
func applyAnchors(window *gtk.Window, pos config.Position, margin int) {
	// Reset all anchors first
	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, false)

	switch pos {
	case config.PositionTop:
		layershell.SetAnchor(window, layershell.LayerShellEdgeTop, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeTop, margin)

	case config.PositionBottom:
		layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeBottom, margin)

	case config.PositionLeft:
		layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeLeft, margin)

	case config.PositionRight:
		layershell.SetAnchor(window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeRight, margin)

	case config.PositionTopLeft:
		layershell.SetAnchor(window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeTop, margin)
		layershell.SetMargin(window, layershell.LayerShellEdgeLeft, margin)

	case config.PositionTopRight:
		layershell.SetAnchor(window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeTop, margin)
		layershell.SetMargin(window, layershell.LayerShellEdgeRight, margin)

	case config.PositionBottomLeft:
		layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeBottom, margin)
		layershell.SetMargin(window, layershell.LayerShellEdgeLeft, margin)

	case config.PositionBottomRight:
		layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(window, layershell.LayerShellEdgeBottom, margin)
		layershell.SetMargin(window, layershell.LayerShellEdgeRight, margin)
	}
}
