// Package dbus exposes the panel registry on the session bus. The daemon
// claims dev.jmylchreest.spot and exports the Panels interface with methods
// for Show, Hide, Toggle, HideAll, ListPanels, and GetStatus, plus signals
// for panel lifecycle transitions. The CLI and TUI talk to a running daemon
// through the Client in this package.
package dbus
