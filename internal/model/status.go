package model

// PanelStatus is a point-in-time snapshot of one managed panel, as reported
// over D-Bus and rendered by the CLI and TUI.
type PanelStatus struct {
	Label         string `json:"label" yaml:"label"`
	Visible       bool   `json:"visible" yaml:"visible"`
	Shortcut      string `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	StackingLevel int    `json:"stacking_level" yaml:"stacking_level"`
	AutoHide      bool   `json:"auto_hide" yaml:"auto_hide"`
	Backend       string `json:"backend" yaml:"backend"`
}

// DaemonStatus summarises a running daemon for the status command.
type DaemonStatus struct {
	Running       bool          `json:"running" yaml:"running"`
	Version       string        `json:"version" yaml:"version"`
	Backend       string        `json:"backend" yaml:"backend"`
	BackendDetail string        `json:"backend_detail,omitempty" yaml:"backend_detail,omitempty"`
	PanelCount    int           `json:"panel_count" yaml:"panel_count"`
	VisibleCount  int           `json:"visible_count" yaml:"visible_count"`
	Panels        []PanelStatus `json:"panels,omitempty" yaml:"panels,omitempty"`
}
