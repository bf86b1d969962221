package platform

import (
	"log/slog"
	"os"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
)

// Detect selects the panel backend for the current session. It must be
// called after GTK has initialised its display connection.
func Detect(logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.Default()
	}

	if layershell.IsSupported() {
		logger.Debug("layer-shell support detected")
		return NewLayerShellBackend(logger)
	}

	reason := "compositor does not support the wlr-layer-shell protocol"
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		reason = "not running under a Wayland session"
	}
	logger.Warn("native panel support unavailable, windows stay unmanaged",
		"reason", reason,
	)
	return NewNoopBackend(reason)
}
