package shortcut

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Canonical modifier names in the order they are rendered.
var modOrder = []string{"ctrl", "alt", "shift", "super"}

// keyFor maps canonical key names to the cross-platform key set the
// hotkey library exposes.
var keyFor = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"del":    hotkey.KeyDelete,

	"up": hotkey.KeyUp, "down": hotkey.KeyDown,
	"left": hotkey.KeyLeft, "right": hotkey.KeyRight,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// ParseAccel parses an accelerator into hotkey modifiers and a key.
func ParseAccel(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	names, keyName, err := splitAccel(accel)
	if err != nil {
		return nil, 0, err
	}

	mods := make([]hotkey.Modifier, 0, len(names))
	for _, name := range names {
		mod, ok := modifierFor[name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: modifier %q not supported on this platform", ErrInvalidAccel, name)
		}
		mods = append(mods, mod)
	}

	key, ok := keyFor[keyName]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidAccel, keyName, accel)
	}

	return mods, key, nil
}

// Normalize returns the canonical lower-case form of an accelerator so
// that "CTRL + Shift+K" and "shift+ctrl+k" compare equal. Accelerators
// that do not parse are returned lower-cased as-is.
func Normalize(accel string) string {
	mods, key, err := splitAccel(accel)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(accel))
	}
	return strings.Join(append(mods, key), "+")
}

// splitAccel splits an accelerator into canonical modifier names and a
// single key name.
func splitAccel(accel string) ([]string, string, error) {
	trimmed := strings.TrimSpace(accel)
	if trimmed == "" {
		return nil, "", fmt.Errorf("%w: empty accelerator", ErrInvalidAccel)
	}

	seen := make(map[string]bool)
	var key string

	for _, part := range strings.Split(trimmed, "+") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			return nil, "", fmt.Errorf("%w: %q", ErrInvalidAccel, accel)
		}

		switch p {
		case "control", "ctl":
			p = "ctrl"
		case "option", "opt":
			p = "alt"
		case "cmd", "command", "win", "meta", "mod4":
			p = "super"
		case "cmdorctrl", "commandorcontrol", "primary":
			p = primaryModifier
		}

		if isModifier(p) {
			seen[p] = true
			continue
		}

		if key != "" {
			return nil, "", fmt.Errorf("%w: %q has more than one key", ErrInvalidAccel, accel)
		}
		key = p
	}

	if key == "" {
		return nil, "", fmt.Errorf("%w: %q has no key", ErrInvalidAccel, accel)
	}

	mods := make([]string, 0, len(seen))
	for _, m := range modOrder {
		if seen[m] {
			mods = append(mods, m)
		}
	}
	return mods, key, nil
}

func isModifier(name string) bool {
	switch name {
	case "ctrl", "alt", "shift", "super":
		return true
	}
	return false
}
