// Package platform converts application windows into overlay panels.
// It selects a backend at runtime: Wayland compositors that speak the
// wlr-layer-shell protocol get real panel conversion, everything else
// falls back to a no-op backend that leaves windows unmanaged.
package platform
