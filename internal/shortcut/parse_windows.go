//go:build windows

package shortcut

import "golang.design/x/hotkey"

// CmdOrCtrl resolves to Ctrl on Windows.
const primaryModifier = "ctrl"

// modifierFor maps canonical modifier names to Win32 hotkey modifiers.
var modifierFor = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModAlt,
	"super": hotkey.ModWin,
}
