package shortcut

// Backend registers system-wide accelerators and dispatches their
// handlers. Implementations must be safe for concurrent use.
type Backend interface {
	// Register binds an accelerator to a handler. Registering an
	// accelerator that is already held, by this process or any other,
	// fails with an error.
	Register(accel string, handler func()) error

	// Unregister releases an accelerator. Unknown accelerators are ignored.
	Unregister(accel string)

	// IsRegistered reports whether this backend currently holds the
	// accelerator. Notation differences are normalized before comparing.
	IsRegistered(accel string) bool

	// Close releases every registered accelerator.
	Close() error
}

// shortcutError is a simple string-based error type for shortcut errors.
type shortcutError string

func (e shortcutError) Error() string { return string(e) }

// Errors
const (
	// ErrInvalidAccel reports an accelerator string that does not parse.
	ErrInvalidAccel = shortcutError("invalid accelerator")

	// ErrAlreadyRegistered reports an accelerator this backend already holds.
	ErrAlreadyRegistered = shortcutError("accelerator already registered")

	// ErrBackendClosed reports a backend that has been shut down.
	ErrBackendClosed = shortcutError("shortcut backend is closed")
)
