//go:build darwin

package shortcut

import "golang.design/x/hotkey"

// CmdOrCtrl resolves to Cmd on macOS.
const primaryModifier = "super"

// modifierFor maps canonical modifier names to Carbon modifiers.
// Super is the Command key and Alt is Option.
var modifierFor = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModOption,
	"super": hotkey.ModCmd,
}
