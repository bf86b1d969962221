//go:build linux

package shortcut

import "golang.design/x/hotkey"

// CmdOrCtrl resolves to Ctrl on Linux.
const primaryModifier = "ctrl"

// modifierFor maps canonical modifier names to X11 modifier masks.
// Alt is Mod1 and Super is Mod4 under X11.
var modifierFor = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1,
	"super": hotkey.Mod4,
}
