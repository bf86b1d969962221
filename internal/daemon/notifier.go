package daemon

import (
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

// NotificationLevel indicates the urgency/severity of a daemon notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

// SendFunc delivers one desktop notification. The urgency byte follows
// the freedesktop notification spec: 0 low, 1 normal, 2 critical.
type SendFunc func(summary, body, icon string, urgency byte) error

// Notifier sends desktop notifications about spotd events through the
// session's notification service. Rate limiting prevents a flapping
// config file from flooding the desktop.
type Notifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	send SendFunc

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration        // minimum time between same notifications

	enabled bool
}

// NewNotifier creates a Notifier. Notifications are dropped until a
// send function is set.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second, // Don't repeat same notification within 5 seconds
		enabled:        true,
	}
}

// SetSendFunc sets the delivery function. Use DesktopSendFunc for the
// session bus; tests inject a capture function.
func (n *Notifier) SetSendFunc(send SendFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

// SetEnabled enables or disables daemon notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *Notifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a notification if not rate-limited. The key is used for
// rate limiting - same key won't notify again within minInterval.
func (n *Notifier) Notify(key, summary, body string, level NotificationLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}

	if n.send == nil {
		n.logger.Debug("notification skipped: no send function", "summary", summary)
		return
	}

	// Rate limiting check
	if lastTime, ok := n.lastNotifyTime[key]; ok {
		if time.Since(lastTime) < n.minInterval {
			n.logger.Debug("notification rate-limited", "key", key, "summary", summary)
			return
		}
	}
	n.lastNotifyTime[key] = time.Now()

	// Map level to freedesktop urgency
	urgency := byte(1) // Normal
	icon := "dialog-information"
	switch level {
	case NotificationLevelInfo:
		urgency = 0 // Low
		icon = "dialog-information"
	case NotificationLevelWarning:
		urgency = 1 // Normal
		icon = "dialog-warning"
	case NotificationLevelError:
		urgency = 2 // Critical
		icon = "dialog-error"
	}

	n.logger.Debug("sending notification", "key", key, "summary", summary, "level", level)

	if err := n.send(summary, body, icon, urgency); err != nil {
		n.logger.Warn("failed to send notification", "key", key, "error", err)
	}
}

// NotifyStartup sends a notification that the daemon has started.
func (n *Notifier) NotifyStartup(version string) {
	n.Notify(
		"startup",
		"spotd Started",
		"Panel daemon v"+version+" is now running.",
		NotificationLevelInfo,
	)
}

// NotifyConfigReloaded sends a notification about config being reloaded.
func (n *Notifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"spotd configuration has been successfully reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError sends a notification about config validation error.
func (n *Notifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyRestartRequired sends a notification that a config change needs
// a daemon restart. Panel windows are created once at startup, so
// adding, removing or re-keying panels cannot be applied live.
func (n *Notifier) NotifyRestartRequired() {
	n.Notify(
		"restart-required",
		"Restart Required",
		"The panel set changed in the configuration. Restart spotd to apply it.",
		NotificationLevelWarning,
	)
}

// NotifyThemeError sends a notification about theme loading error.
func (n *Notifier) NotifyThemeError(err error) {
	n.Notify(
		"theme-error",
		"Theme Error",
		"Failed to load theme: "+err.Error(),
		NotificationLevelWarning,
	)
}

// DesktopSendFunc returns a SendFunc that posts to the session's
// org.freedesktop.Notifications service over conn.
func DesktopSendFunc(conn *godbus.Conn) SendFunc {
	return func(summary, body, icon string, urgency byte) error {
		obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
		call := obj.Call("org.freedesktop.Notifications.Notify", 0,
			"spotd",   // app_name
			uint32(0), // replaces_id
			icon,
			summary,
			body,
			[]string{}, // actions
			map[string]godbus.Variant{
				"urgency":       godbus.MakeVariant(urgency),
				"transient":     godbus.MakeVariant(true),
				"desktop-entry": godbus.MakeVariant("spotd"),
			},
			int32(5000), // expire_timeout in ms
		)
		var id uint32
		return call.Store(&id)
	}
}
