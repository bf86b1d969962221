// Package config defines the spot configuration model.
//
// The panel set itself (Config) is deliberately small: a list of window
// declarations plus one global close shortcut. Everything the daemon needs
// beyond that lives in DaemonConfig. Config supports a deterministic merge
// so user overrides can be layered onto packaged defaults.
package config

// WindowConfig declares one logical overlay window.
type WindowConfig struct {
	// Label is the stable identifier used as the registry key.
	Label string `toml:"label" json:"label"`

	// Shortcut toggles the window's visibility. Empty means no
	// per-window shortcut is registered.
	Shortcut string `toml:"shortcut,omitempty" json:"shortcut,omitempty"`

	// StackingLevel is the native z-level. Nil means one level above
	// the layer panels and menus live on.
	StackingLevel *int `toml:"stacking_level,omitempty" json:"stacking_level,omitempty"`

	// AutoHide hides the panel when it loses keyboard focus.
	// Nil means true.
	AutoHide *bool `toml:"auto_hide,omitempty" json:"auto_hide,omitempty"`

	// Presentation settings used by the daemon when it creates the
	// window. Zero values fall back to the configured defaults.
	Title           string `toml:"title,omitempty" json:"title,omitempty"`
	Width           int    `toml:"width,omitempty" json:"width,omitempty"`
	Height          int    `toml:"height,omitempty" json:"height,omitempty"`
	Position        string `toml:"position,omitempty" json:"position,omitempty"`
	ContentTemplate string `toml:"content_template,omitempty" json:"content_template,omitempty"`
}

// AutoHideEnabled returns the auto-hide setting with the default applied.
func (w *WindowConfig) AutoHideEnabled() bool {
	if w.AutoHide == nil {
		return true
	}
	return *w.AutoHide
}

// Config is the panel set configuration: which windows become spotlight
// panels and the single shortcut that hides all of them.
type Config struct {
	// Windows lists the managed windows in declaration order.
	// Nil means no windows are converted to panels.
	Windows []WindowConfig `toml:"windows,omitempty" json:"windows,omitempty"`

	// GlobalCloseShortcut hides every managed panel at once.
	// Empty means no close shortcut is registered.
	GlobalCloseShortcut string `toml:"global_close_shortcut,omitempty" json:"global_close_shortcut,omitempty"`
}

// FindWindow returns the configuration entry for label, or nil if the label
// is not managed.
func (c *Config) FindWindow(label string) *WindowConfig {
	for i := range c.Windows {
		if c.Windows[i].Label == label {
			return &c.Windows[i]
		}
	}
	return nil
}

// Labels returns the configured labels in declaration order.
func (c *Config) Labels() []string {
	labels := make([]string, 0, len(c.Windows))
	for i := range c.Windows {
		labels = append(labels, c.Windows[i].Label)
	}
	return labels
}

// Merge combines two configurations with primary taking precedence.
//
// The window list starts from primary's list when present, otherwise
// secondary's. Entries from secondary whose label is not already present are
// appended afterwards, keeping each list's original order. Duplicate labels
// keep their first occurrence; entries never merge field by field. An empty
// result stays nil rather than an empty list. The close shortcut is
// primary's when set, otherwise secondary's.
func Merge(primary, secondary Config) Config {
	var merged Config

	chosen := primary.Windows
	if chosen == nil {
		chosen = secondary.Windows
	}

	seen := make(map[string]bool, len(chosen))
	for _, w := range chosen {
		if seen[w.Label] {
			continue
		}
		seen[w.Label] = true
		merged.Windows = append(merged.Windows, w)
	}
	for _, w := range secondary.Windows {
		if seen[w.Label] {
			continue
		}
		seen[w.Label] = true
		merged.Windows = append(merged.Windows, w)
	}

	merged.GlobalCloseShortcut = primary.GlobalCloseShortcut
	if merged.GlobalCloseShortcut == "" {
		merged.GlobalCloseShortcut = secondary.GlobalCloseShortcut
	}

	return merged
}
