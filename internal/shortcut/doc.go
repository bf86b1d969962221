// Package shortcut registers system-wide keyboard shortcuts.
// Accelerators are written as "Ctrl+Shift+K": zero or more modifiers
// followed by a key, joined with "+". Parsing is case-insensitive and
// accepts common aliases such as Cmd, Option and CmdOrCtrl.
package shortcut
