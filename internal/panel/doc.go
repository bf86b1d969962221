// Package panel tracks converted overlay panels by label.
// The registry is the single entry point for showing, hiding and
// toggling panels: shortcut handlers, focus-loss observers and the
// D-Bus surface all resolve panels through it by label, never through
// captured panel references.
package panel
