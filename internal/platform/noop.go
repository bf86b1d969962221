package platform

// NoopBackend is the fallback for sessions without layer-shell support.
// Conversion is refused with ErrUnsupported, which callers treat as
// "this window stays unmanaged".
type NoopBackend struct {
	reason string
}

// NewNoopBackend creates a no-op backend carrying the reason native
// panel support is unavailable.
func NewNoopBackend(reason string) *NoopBackend {
	if reason == "" {
		reason = "no native panel support"
	}
	return &NoopBackend{reason: reason}
}

// Name identifies the backend in logs and status output.
func (b *NoopBackend) Name() string { return "noop" }

// Available always reports false with the detection reason.
func (b *NoopBackend) Available() (bool, string) { return false, b.reason }

// Convert refuses every window.
func (b *NoopBackend) Convert(Window, Options) (Panel, error) {
	return nil, ErrUnsupported
}
