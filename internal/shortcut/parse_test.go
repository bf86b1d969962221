package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.design/x/hotkey"
)

func TestParseAccel(t *testing.T) {
	tests := []struct {
		name     string
		accel    string
		wantMods []hotkey.Modifier
		wantKey  hotkey.Key
	}{
		{
			name:     "modifiers and key",
			accel:    "Ctrl+Shift+K",
			wantMods: []hotkey.Modifier{modifierFor["ctrl"], modifierFor["shift"]},
			wantKey:  hotkey.KeyK,
		},
		{
			name:     "super with named key",
			accel:    "Super+Space",
			wantMods: []hotkey.Modifier{modifierFor["super"]},
			wantKey:  hotkey.KeySpace,
		},
		{
			name:     "cmd alias maps to super",
			accel:    "Cmd+J",
			wantMods: []hotkey.Modifier{modifierFor["super"]},
			wantKey:  hotkey.KeyJ,
		},
		{
			name:     "cmdorctrl resolves to platform primary",
			accel:    "CmdOrCtrl+P",
			wantMods: []hotkey.Modifier{modifierFor[primaryModifier]},
			wantKey:  hotkey.KeyP,
		},
		{
			name:     "option alias maps to alt",
			accel:    "Option+Tab",
			wantMods: []hotkey.Modifier{modifierFor["alt"]},
			wantKey:  hotkey.KeyTab,
		},
		{
			name:     "bare function key",
			accel:    "F5",
			wantMods: []hotkey.Modifier{},
			wantKey:  hotkey.KeyF5,
		},
		{
			name:     "whitespace and case insensitive",
			accel:    " ctrl + shift + k ",
			wantMods: []hotkey.Modifier{modifierFor["ctrl"], modifierFor["shift"]},
			wantKey:  hotkey.KeyK,
		},
		{
			name:     "enter aliases return",
			accel:    "Ctrl+Enter",
			wantMods: []hotkey.Modifier{modifierFor["ctrl"]},
			wantKey:  hotkey.KeyReturn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mods, key, err := ParseAccel(tt.accel)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMods, mods)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestParseAccel_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		accel string
	}{
		{name: "empty", accel: ""},
		{name: "whitespace only", accel: "   "},
		{name: "trailing plus", accel: "Ctrl+"},
		{name: "modifiers only", accel: "Ctrl+Shift"},
		{name: "two keys", accel: "Ctrl+K+J"},
		{name: "unknown key", accel: "Ctrl+Frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseAccel(tt.accel)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAccel)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		accel string
		want  string
	}{
		{name: "lowercases", accel: "Ctrl+Shift+K", want: "ctrl+shift+k"},
		{name: "orders modifiers", accel: "shift+ctrl+k", want: "ctrl+shift+k"},
		{name: "strips whitespace", accel: " CTRL + Shift+K ", want: "ctrl+shift+k"},
		{name: "resolves aliases", accel: "Cmd+J", want: "super+j"},
		{name: "dedupes repeated modifier", accel: "ctrl+control+k", want: "ctrl+k"},
		{name: "unparseable falls back to lowercase", accel: "Ctrl++", want: "ctrl++"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.accel))
		})
	}
}

func TestNormalize_EquivalentNotationsCollide(t *testing.T) {
	// Registration bookkeeping keys on the normalized form, so all of
	// these must land on the same map entry.
	variants := []string{
		"Ctrl+Shift+K",
		"shift+ctrl+k",
		"CTRL+SHIFT+K",
		"Control + Shift + K",
	}

	want := Normalize(variants[0])
	for _, v := range variants {
		assert.Equal(t, want, Normalize(v), "variant %q", v)
	}
}
