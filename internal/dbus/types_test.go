package dbus

import (
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/spot/internal/model"
	"github.com/jmylchreest/spot/internal/panel"
)

func TestPanelStatusRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		status model.PanelStatus
	}{
		{
			name: "full",
			status: model.PanelStatus{
				Label:         "scratchpad",
				Visible:       true,
				Shortcut:      "ctrl+shift+space",
				StackingLevel: 3,
				AutoHide:      true,
				Backend:       "layer-shell",
			},
		},
		{
			name: "minimal",
			status: model.PanelStatus{
				Label:   "notes",
				Backend: "layer-shell",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := PanelStatusToVariant(tt.status)
			assert.Equal(t, tt.status, PanelStatusFromVariant(m))
		})
	}
}

func TestPanelStatusFromVariant_Tolerant(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]dbus.Variant
		expected model.PanelStatus
	}{
		{
			name:     "empty map",
			input:    map[string]dbus.Variant{},
			expected: model.PanelStatus{},
		},
		{
			name: "wrong types fall back to zero values",
			input: map[string]dbus.Variant{
				"label":          dbus.MakeVariant(int32(42)),
				"visible":        dbus.MakeVariant("yes"),
				"stacking_level": dbus.MakeVariant("high"),
			},
			expected: model.PanelStatus{},
		},
		{
			name: "partial map",
			input: map[string]dbus.Variant{
				"label":   dbus.MakeVariant("terminal"),
				"visible": dbus.MakeVariant(true),
			},
			expected: model.PanelStatus{Label: "terminal", Visible: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PanelStatusFromVariant(tt.input))
		})
	}
}

func TestDaemonStatusRoundTrip(t *testing.T) {
	status := model.DaemonStatus{
		Running:       true,
		Version:       "0.3.0",
		Backend:       "layer-shell",
		BackendDetail: "wlr-layer-shell available",
		PanelCount:    4,
		VisibleCount:  1,
	}

	m := DaemonStatusToVariant(status)
	assert.Equal(t, status, DaemonStatusFromVariant(m))
}

func TestVariantInt_Widths(t *testing.T) {
	tests := []struct {
		name     string
		value    dbus.Variant
		expected int
	}{
		{"int32", dbus.MakeVariant(int32(7)), 7},
		{"uint32", dbus.MakeVariant(uint32(8)), 8},
		{"int64", dbus.MakeVariant(int64(9)), 9},
		{"int", dbus.MakeVariant(10), 10},
		{"byte", dbus.MakeVariant(byte(2)), 2},
		{"string is not an int", dbus.MakeVariant("3"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := map[string]dbus.Variant{"n": tt.value}
			assert.Equal(t, tt.expected, variantInt(m, "n"))
		})
	}
}

func TestMapCallError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, mapCallError(nil))
	})

	t.Run("service unknown becomes daemon not running", func(t *testing.T) {
		err := mapCallError(dbus.Error{Name: serviceUnknown})
		assert.ErrorIs(t, err, ErrDaemonNotRunning)
	})

	t.Run("unknown panel keeps the message", func(t *testing.T) {
		err := mapCallError(dbus.Error{
			Name: errUnknownPanel,
			Body: []interface{}{`no panel with label "ghost"`},
		})
		assert.ErrorIs(t, err, ErrUnknownPanel)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("closed registry surfaces as daemon error", func(t *testing.T) {
		err := mapCallError(dbus.Error{
			Name: errClosed,
			Body: []interface{}{"panel registry is closed"},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "registry is closed")
	})

	t.Run("foreign errors pass through", func(t *testing.T) {
		orig := fmt.Errorf("connection reset")
		assert.Equal(t, orig, mapCallError(orig))
	})
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isNotFound(panel.ErrNotFound))
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", panel.ErrNotFound)))
	assert.False(t, isNotFound(panel.ErrRegistryClosed))

	assert.True(t, isClosed(panel.ErrRegistryClosed))
	assert.False(t, isClosed(panel.ErrNotFound))
}
