package dbus

import (
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/spot/internal/model"
	"github.com/jmylchreest/spot/internal/panel"
)

// PanelStatusToVariant converts a panel snapshot to a D-Bus a{sv} map.
func PanelStatusToVariant(ps model.PanelStatus) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"label":          dbus.MakeVariant(ps.Label),
		"visible":        dbus.MakeVariant(ps.Visible),
		"shortcut":       dbus.MakeVariant(ps.Shortcut),
		"stacking_level": dbus.MakeVariant(int32(ps.StackingLevel)),
		"auto_hide":      dbus.MakeVariant(ps.AutoHide),
		"backend":        dbus.MakeVariant(ps.Backend),
	}
}

// PanelStatusFromVariant converts a D-Bus a{sv} map back to a panel snapshot.
// Missing or mistyped entries fall back to zero values.
func PanelStatusFromVariant(m map[string]dbus.Variant) model.PanelStatus {
	return model.PanelStatus{
		Label:         variantString(m, "label"),
		Visible:       variantBool(m, "visible"),
		Shortcut:      variantString(m, "shortcut"),
		StackingLevel: variantInt(m, "stacking_level"),
		AutoHide:      variantBool(m, "auto_hide"),
		Backend:       variantString(m, "backend"),
	}
}

// DaemonStatusToVariant converts a daemon summary to a D-Bus a{sv} map.
func DaemonStatusToVariant(ds model.DaemonStatus) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"running":        dbus.MakeVariant(ds.Running),
		"version":        dbus.MakeVariant(ds.Version),
		"backend":        dbus.MakeVariant(ds.Backend),
		"backend_detail": dbus.MakeVariant(ds.BackendDetail),
		"panel_count":    dbus.MakeVariant(int32(ds.PanelCount)),
		"visible_count":  dbus.MakeVariant(int32(ds.VisibleCount)),
	}
}

// DaemonStatusFromVariant converts a D-Bus a{sv} map back to a daemon summary.
// Missing or mistyped entries fall back to zero values.
func DaemonStatusFromVariant(m map[string]dbus.Variant) model.DaemonStatus {
	return model.DaemonStatus{
		Running:       variantBool(m, "running"),
		Version:       variantString(m, "version"),
		Backend:       variantString(m, "backend"),
		BackendDetail: variantString(m, "backend_detail"),
		PanelCount:    variantInt(m, "panel_count"),
		VisibleCount:  variantInt(m, "visible_count"),
	}
}

// variantString extracts a string value from a variant map.
// Returns empty string if missing or not a string.
func variantString(m map[string]dbus.Variant, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// variantBool extracts a bool value from a variant map.
// Returns false if missing or not a bool.
func variantBool(m map[string]dbus.Variant, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// variantInt extracts an integer value from a variant map, tolerating the
// integer widths D-Bus clients commonly send.
// Returns 0 if missing or not an integer.
func variantInt(m map[string]dbus.Variant, key string) int {
	if v, ok := m[key]; ok {
		switch val := v.Value().(type) {
		case int32:
			return int(val)
		case uint32:
			return int(val)
		case int64:
			return int(val)
		case int:
			return val
		case byte:
			return int(val)
		}
	}
	return 0
}

// isNotFound reports whether err is the registry's unknown-label error.
func isNotFound(err error) bool {
	return errors.Is(err, panel.ErrNotFound)
}

// isClosed reports whether err is the registry's closed error.
func isClosed(err error) bool {
	return errors.Is(err, panel.ErrRegistryClosed)
}
