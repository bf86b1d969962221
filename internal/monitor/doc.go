// Package monitor locates physical monitors and the one under the
// pointer. Geometry is reported in physical pixels together with the
// scale factor. A pointer outside every monitor is an absence, not an
// error: callers skip repositioning instead of failing.
package monitor
