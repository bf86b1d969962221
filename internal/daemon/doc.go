// Package daemon provides the supporting pieces for spotd: panel
// window construction, configuration hot-reload, and desktop
// notifications about daemon events.
package daemon
