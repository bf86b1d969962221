// Package theme handles CSS theme loading and hot-reload for spotd panels.
// It supports loading themes from ~/.config/spot/themes/ and provides an
// embedded default theme for use when no custom theme is configured. The
// package also defines the CSS class contract the daemon applies to panel
// windows so themes can target individual panels and their visibility state.
package theme
