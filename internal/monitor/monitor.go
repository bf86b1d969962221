package monitor

import (
	"fmt"
	"log/slog"
)

// Info describes one monitor. X and Y are the top-left corner in the
// global coordinate space; Width and Height are physical pixels.
type Info struct {
	Name    string  `json:"name" yaml:"name"`
	X       int     `json:"x" yaml:"x"`
	Y       int     `json:"y" yaml:"y"`
	Width   int     `json:"width" yaml:"width"`
	Height  int     `json:"height" yaml:"height"`
	Scale   float64 `json:"scale" yaml:"scale"`
	Primary bool    `json:"primary" yaml:"primary"`
}

// Contains reports whether the point lies on this monitor. Left and top
// edges are inclusive, right and bottom exclusive.
func (m *Info) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Center returns the monitor's center point.
func (m *Info) Center() (int, int) {
	return m.X + m.Width/2, m.Y + m.Height/2
}

// String renders the geometry in the usual WIDTHxHEIGHT+X+Y form.
func (m *Info) String() string {
	return fmt.Sprintf("%s %dx%d+%d+%d", m.Name, m.Width, m.Height, m.X, m.Y)
}

// Locator finds monitors in the current session.
type Locator interface {
	// All returns every known monitor.
	All() ([]Info, error)

	// UnderPointer returns the monitor the pointer is currently on, or
	// nil when the pointer is outside every monitor.
	UnderPointer() (*Info, error)

	// Name identifies the locator in logs and status output.
	Name() string

	// Close releases the locator's display connection.
	Close()
}

// pickMonitor returns the monitor containing the point, or nil.
func pickMonitor(monitors []Info, x, y int) *Info {
	for i := range monitors {
		if monitors[i].Contains(x, y) {
			return &monitors[i]
		}
	}
	return nil
}

// Detect selects a locator for the current session, falling back to a
// no-op locator when no display connection can be made.
func Detect(logger *slog.Logger) Locator {
	if logger == nil {
		logger = slog.Default()
	}

	locator, err := NewX11Locator(logger)
	if err != nil {
		logger.Debug("monitor detection unavailable", "error", err)
		return NewNoopLocator()
	}
	return locator
}
