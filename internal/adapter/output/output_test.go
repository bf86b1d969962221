package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/spot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testPanels() []model.PanelStatus {
	return []model.PanelStatus{
		{
			Label:         "scratchpad",
			Visible:       true,
			Shortcut:      "ctrl+shift+space",
			StackingLevel: 3,
			AutoHide:      true,
			Backend:       "layer-shell",
		},
		{
			Label:         "notes",
			Visible:       false,
			Shortcut:      "super+n",
			StackingLevel: 2,
			AutoHide:      false,
			Backend:       "layer-shell",
		},
	}
}

func testEvents() []model.Event {
	now := time.Now()
	return []model.Event{
		{
			ID:        "01AAAAAAAAAAAAAAAAAAAAAAAA",
			Label:     "scratchpad",
			Kind:      model.EventShown,
			Source:    model.SourceShortcut,
			Timestamp: now.Add(-5 * time.Minute).Unix(),
		},
		{
			ID:        "01BBBBBBBBBBBBBBBBBBBBBBBB",
			Label:     "scratchpad",
			Kind:      model.EventHidden,
			Source:    model.SourceFocusLoss,
			Timestamp: now.Add(-2 * time.Hour).Unix(),
		},
	}
}

func TestPlainFormatter_Panels(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewPlainFormatter(DefaultFormatterOptions())
	err := formatter.FormatPanels(&buf, testPanels())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "[1]")
	assert.Contains(t, lines[0], "scratchpad")
	assert.Contains(t, lines[0], "visible")
	assert.Contains(t, lines[0], "ctrl+shift+space")

	assert.Contains(t, lines[1], "[2]")
	assert.Contains(t, lines[1], "notes")
	assert.Contains(t, lines[1], "hidden")
}

func TestPlainFormatter_Events(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewPlainFormatter(DefaultFormatterOptions())
	err := formatter.FormatEvents(&buf, testEvents())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "<scratchpad>")
	assert.Contains(t, output, "shown")
	assert.Contains(t, output, "hidden")
	assert.Contains(t, output, "source: shortcut")
	assert.Contains(t, output, "source: focus-loss")
}

func TestPlainFormatter_EventsNoSource(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowSource = false
	formatter := NewPlainFormatter(opts)
	err := formatter.FormatEvents(&buf, testEvents())
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "source:")
}

func TestDmenuFormatter_Panels(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewDmenuFormatter(DefaultFormatterOptions())
	err := formatter.FormatPanels(&buf, testPanels())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "1 | scratchpad | visible | ctrl+shift+space", lines[0])
	assert.Equal(t, "2 | notes | hidden | super+n", lines[1])
}

func TestDmenuFormatter_Events(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewDmenuFormatter(DefaultFormatterOptions())
	err := formatter.FormatEvents(&buf, testEvents())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "scratchpad")
	assert.Contains(t, lines[0], "shown (shortcut)")
	assert.Contains(t, lines[1], "hidden (focus-loss)")
}

func TestDmenuFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}}: {{stateIcon .Panel.Visible}} {{.Panel.Label}}"
	formatter := NewDmenuFormatter(opts)
	err := formatter.FormatPanels(&buf, testPanels())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1: * scratchpad", lines[0])
	assert.Equal(t, "2: - notes", lines[1])
}

func TestDmenuFormatter_CustomSeparator(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Separator = "\t"
	formatter := NewDmenuFormatter(opts)
	err := formatter.FormatPanels(&buf, testPanels())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1\tscratchpad\tvisible\tctrl+shift+space", lines[0])
}

func TestJSONFormatter_Panels(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewJSONFormatter(DefaultFormatterOptions())
	err := formatter.FormatPanels(&buf, testPanels())
	require.NoError(t, err)

	var result []model.PanelStatus
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "scratchpad", result[0].Label)
	assert.True(t, result[0].Visible)
	assert.Equal(t, "notes", result[1].Label)
}

func TestJSONFormatter_Events(t *testing.T) {
	events := testEvents()
	var buf bytes.Buffer

	formatter := NewJSONFormatter(DefaultFormatterOptions())
	err := formatter.FormatEvents(&buf, events)
	require.NoError(t, err)

	var result []model.Event
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, events[0].ID, result[0].ID)
	assert.Equal(t, model.EventShown, result[0].Kind)
}

func TestJSONFormatter_Status(t *testing.T) {
	status := model.DaemonStatus{
		Running:      true,
		Version:      "0.3.0",
		Backend:      "layer-shell",
		PanelCount:   2,
		VisibleCount: 1,
	}
	var buf bytes.Buffer

	formatter := NewJSONFormatter(DefaultFormatterOptions())
	err := formatter.FormatStatus(&buf, status)
	require.NoError(t, err)

	var result model.DaemonStatus
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, status, result)
}

func TestYAMLFormatter_Panels(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewYAMLFormatter(DefaultFormatterOptions())
	err := formatter.FormatPanels(&buf, testPanels())
	require.NoError(t, err)

	var result []model.PanelStatus
	err = yaml.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "scratchpad", result[0].Label)
	assert.Equal(t, 3, result[0].StackingLevel)
}

func TestIDsFormatter(t *testing.T) {
	t.Run("panels emit labels", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewIDsFormatter().FormatPanels(&buf, testPanels())
		require.NoError(t, err)
		assert.Equal(t, "scratchpad\nnotes\n", buf.String())
	})

	t.Run("events emit ULIDs", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewIDsFormatter().FormatEvents(&buf, testEvents())
		require.NoError(t, err)
		assert.Equal(t, "01AAAAAAAAAAAAAAAAAAAAAAAA\n01BBBBBBBBBBBBBBBBBBBBBBBB\n", buf.String())
	})
}

func TestFormatPanelField(t *testing.T) {
	ps := &model.PanelStatus{
		Label:         "scratchpad",
		Visible:       true,
		Shortcut:      "ctrl+shift+space",
		StackingLevel: 3,
		Backend:       "layer-shell",
	}

	tests := []struct {
		field    string
		expected string
	}{
		{"label", "scratchpad"},
		{"visible", "visible"},
		{"state", "visible"},
		{"shortcut", "ctrl+shift+space"},
		{"level", "3"},
		{"backend", "layer-shell"},
		{"all", "scratchpad visible ctrl+shift+space"},
		{"unknown", "scratchpad"}, // defaults to label
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			result := FormatPanelField(ps, tt.field)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()

	t.Run("plain", func(t *testing.T) {
		f := NewFormatter(FormatPlain, opts)
		_, ok := f.(*PlainFormatter)
		assert.True(t, ok)
	})

	t.Run("json", func(t *testing.T) {
		f := NewFormatter(FormatJSON, opts)
		_, ok := f.(*JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("yaml", func(t *testing.T) {
		f := NewFormatter(FormatYAML, opts)
		_, ok := f.(*YAMLFormatter)
		assert.True(t, ok)
	})

	t.Run("dmenu", func(t *testing.T) {
		f := NewFormatter(FormatDmenu, opts)
		_, ok := f.(*DmenuFormatter)
		assert.True(t, ok)
	})

	t.Run("ids", func(t *testing.T) {
		f := NewFormatter(FormatIDs, opts)
		_, ok := f.(*IDsFormatter)
		assert.True(t, ok)
	})

	t.Run("default", func(t *testing.T) {
		f := NewFormatter("unknown", opts)
		_, ok := f.(*PlainFormatter)
		assert.True(t, ok) // defaults to plain
	})
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		ts       int64
		expected string
	}{
		{"zero", 0, "unknown"},
		{"now", now.Unix(), "now"},
		{"30 seconds", now.Add(-30 * time.Second).Unix(), "now"},
		{"5 minutes", now.Add(-5 * time.Minute).Unix(), "5m"},
		{"2 hours", now.Add(-2 * time.Hour).Unix(), "2h"},
		{"3 days", now.Add(-72 * time.Hour).Unix(), "3d"},
		{"2 weeks", now.Add(-14 * 24 * time.Hour).Unix(), "2w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := relativeTime(tt.ts)
			assert.Equal(t, tt.expected, result)
		})
	}
}
