package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that can be unmarshaled from human-readable
// strings. Supports formats like "5s", "1m", "1h30m", or integer
// milliseconds for backwards compatibility.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds) for backwards compatibility
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Position names where a panel is placed on the monitor.
type Position string

const (
	PositionCenter      Position = "center"
	PositionTop         Position = "top"
	PositionBottom      Position = "bottom"
	PositionLeft        Position = "left"
	PositionRight       Position = "right"
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionCenter,
		PositionTop,
		PositionBottom,
		PositionLeft,
		PositionRight,
		PositionTopLeft,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomRight,
	}
}

// DaemonConfig is the configuration for spotd.
// Loaded from ~/.config/spot/spotd.toml
type DaemonConfig struct {
	// The panel set: [[windows]] blocks plus global_close_shortcut.
	Config

	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
	Audio    AudioConfig    `toml:"audio"`
	Journal  JournalConfig  `toml:"journal"`
	Log      LogConfig      `toml:"log"`
}

// DefaultsConfig holds presentation defaults applied to windows that leave
// the corresponding WindowConfig field unset.
type DefaultsConfig struct {
	Width    int    `toml:"width"`    // Panel width in pixels
	Height   int    `toml:"height"`   // Panel height in pixels
	Position string `toml:"position"` // "center", "top", etc.
	Margin   int    `toml:"margin"`   // Pixels from the anchored edge
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name string `toml:"name"` // Theme name without .css extension
}

// AudioConfig contains audio cue settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-transition sound file paths.
type SoundConfig struct {
	Shown  string `toml:"shown"`
	Hidden string `toml:"hidden"`
}

// JournalConfig contains event journal settings.
type JournalConfig struct {
	Enabled    bool   `toml:"enabled"`
	MaxEntries int    `toml:"max_entries"`
	Path       string `toml:"path"` // Empty = default data path
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// ValidLogLevels returns all valid log level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Defaults: DefaultsConfig{
			Width:    640,
			Height:   420,
			Position: string(PositionCenter),
			Margin:   0,
		},
		Theme: ThemeConfig{
			Name: "default",
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Sounds:  SoundConfig{},
		},
		Journal: JournalConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DaemonConfigPath returns the path to the daemon config file.
func DaemonConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "spot", "spotd.toml"), nil
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "spot")
}

// JournalPath returns the effective journal file path.
// An explicit path in the journal section wins over the default data path.
func (c *DaemonConfig) JournalPath() string {
	if c.Journal.Path != "" {
		return expandPath(c.Journal.Path)
	}
	return filepath.Join(DataPath(), "journal.jsonl")
}

// LoadDaemonConfig loads the daemon configuration from the default path.
// If the file doesn't exist, returns the default configuration.
func LoadDaemonConfig() (*DaemonConfig, error) {
	path, err := DaemonConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadDaemonConfigFrom(path)
}

// LoadDaemonConfigFrom loads the daemon configuration from an explicit path.
func LoadDaemonConfigFrom(path string) (*DaemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Collapse duplicate labels so the effective window set matches the
	// merge invariant (first occurrence wins).
	config.Config = Merge(config.Config, Config{})

	return config, nil
}

// SaveDaemonConfig saves the daemon configuration to disk.
func SaveDaemonConfig(config *DaemonConfig) error {
	path, err := DaemonConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *DaemonConfig) Validate() error {
	if !validPosition(c.Defaults.Position) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Defaults.Position, ValidPositions())
	}

	if c.Defaults.Width < 100 || c.Defaults.Width > 4000 {
		return fmt.Errorf("default width must be between 100 and 4000, got %d", c.Defaults.Width)
	}
	if c.Defaults.Height < 50 || c.Defaults.Height > 4000 {
		return fmt.Errorf("default height must be between 50 and 4000, got %d", c.Defaults.Height)
	}

	for i := range c.Windows {
		w := &c.Windows[i]
		if w.Label == "" {
			return fmt.Errorf("window %d: label cannot be empty", i)
		}
		if w.Position != "" && !validPosition(w.Position) {
			return fmt.Errorf("window %q: invalid position %q, must be one of: %v", w.Label, w.Position, ValidPositions())
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if c.Journal.MaxEntries < 1 {
		return fmt.Errorf("journal max_entries must be at least 1, got %d", c.Journal.MaxEntries)
	}

	validLevel := false
	for _, l := range ValidLogLevels() {
		if c.Log.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level %q, must be one of: %v", c.Log.Level, ValidLogLevels())
	}

	return nil
}

func validPosition(pos string) bool {
	for _, p := range ValidPositions() {
		if pos == string(p) {
			return true
		}
	}
	return false
}

// WindowPosition returns the effective position for a window entry.
func (c *DaemonConfig) WindowPosition(w *WindowConfig) Position {
	if w != nil && w.Position != "" {
		return Position(w.Position)
	}
	return Position(c.Defaults.Position)
}

// WindowSize returns the effective width and height for a window entry.
func (c *DaemonConfig) WindowSize(w *WindowConfig) (width, height int) {
	width, height = c.Defaults.Width, c.Defaults.Height
	if w != nil && w.Width > 0 {
		width = w.Width
	}
	if w != nil && w.Height > 0 {
		height = w.Height
	}
	return width, height
}

// SoundForEvent returns the sound file path configured for an event kind.
// Expands ~ to the home directory; empty when no sound is configured.
func (c *DaemonConfig) SoundForEvent(kind string) string {
	var path string
	switch kind {
	case "shown":
		path = c.Audio.Sounds.Shown
	case "hidden", "hide-all":
		path = c.Audio.Sounds.Hidden
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
