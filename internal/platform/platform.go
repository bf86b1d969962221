package platform

import (
	"github.com/jmylchreest/spot/internal/config"
)

// Stacking levels map onto the layer-shell layers. Level 2 (top) is where
// regular bars and menus sit; the default places panels one above that.
const (
	LevelBackground = 0
	LevelBottom     = 1
	LevelTop        = 2
	LevelOverlay    = 3

	DefaultLevel = LevelOverlay
)

// ResolveLevel maps an optional configured stacking level onto the
// supported range. A nil level selects DefaultLevel; out-of-range values
// are clamped to the nearest layer.
func ResolveLevel(level *int) int {
	if level == nil {
		return DefaultLevel
	}
	switch {
	case *level < LevelBackground:
		return LevelBackground
	case *level > LevelOverlay:
		return LevelOverlay
	}
	return *level
}

// platformError is a simple string-based error type for backend errors.
type platformError string

func (e platformError) Error() string { return string(e) }

// ErrUnsupported is returned by Convert when the current session cannot
// host native panels. Callers treat the affected window as unmanaged.
const ErrUnsupported = platformError("panel backend not available in this session")

// ErrWindowType is returned by Convert when the window is not of the
// concrete type the backend knows how to manage.
const ErrWindowType = platformError("window type not supported by this backend")

// Window is a toolkit window that has not yet been converted to a panel.
type Window interface {
	// Label returns the registry identifier the window was created for.
	Label() string
}

// Panel is a converted overlay window. Implementations must be safe to
// call from any goroutine; toolkit work is marshalled onto the main loop
// internally.
type Panel interface {
	Label() string
	Show()
	Hide()
	IsVisible() bool
	StackingLevel() int
}

// Options control how a window is converted into a panel.
type Options struct {
	// StackingLevel selects the layer for the panel. Nil means DefaultLevel.
	StackingLevel *int

	// AutoHide requests a focus-loss observer. When the panel stops being
	// the active surface while visible, OnFocusLost is invoked.
	AutoHide bool

	// Position anchors the panel to a monitor edge or corner.
	Position config.Position

	// Margin is the gap in pixels between the panel and its anchored edges.
	Margin int

	// OnFocusLost receives the panel label, never a panel reference, so the
	// receiver resolves the panel fresh at callback time.
	OnFocusLost func(label string)
}

// Backend converts toolkit windows into overlay panels.
type Backend interface {
	// Name identifies the backend in logs and status output.
	Name() string

	// Available reports whether the backend can manage panels in the
	// current session, with a human-readable reason when it cannot.
	Available() (bool, string)

	// Convert turns a window into a panel. It must be called before the
	// window is first mapped.
	Convert(win Window, opts Options) (Panel, error)
}
