package monitor

// NoopLocator is the fallback for sessions without a display connection.
// It reports no monitors at all, so callers take their no-repositioning
// path instead of failing.
type NoopLocator struct{}

// NewNoopLocator creates a no-op locator.
func NewNoopLocator() *NoopLocator { return &NoopLocator{} }

// Name identifies the locator in logs and status output.
func (l *NoopLocator) Name() string { return "noop" }

// All returns no monitors.
func (l *NoopLocator) All() ([]Info, error) { return nil, nil }

// UnderPointer reports an absent monitor.
func (l *NoopLocator) UnderPointer() (*Info, error) { return nil, nil }

// Close is a no-op.
func (l *NoopLocator) Close() {}
