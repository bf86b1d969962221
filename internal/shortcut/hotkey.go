package shortcut

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.design/x/hotkey"
)

// HotkeyBackend implements Backend on top of golang.design/x/hotkey.
// Each registered accelerator gets its own listener goroutine that
// dispatches keydown events to the handler.
type HotkeyBackend struct {
	mu      sync.Mutex
	logger  *slog.Logger
	hotkeys map[string]*registration
	closed  bool
}

// registration tracks one bound accelerator and its listener goroutine.
type registration struct {
	hk     *hotkey.Hotkey
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHotkeyBackend creates a hotkey backend.
func NewHotkeyBackend(logger *slog.Logger) *HotkeyBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &HotkeyBackend{
		logger:  logger,
		hotkeys: make(map[string]*registration),
	}
}

// Register binds an accelerator and starts listening for it.
// An accelerator held by another application fails here with the
// operating system's error.
func (b *HotkeyBackend) Register(accel string, handler func()) error {
	mods, key, err := ParseAccel(accel)
	if err != nil {
		return err
	}
	norm := Normalize(accel)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBackendClosed
	}
	if _, exists := b.hotkeys[norm]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, accel)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register %q: %w", accel, err)
	}

	reg := &registration{
		hk:     hk,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	b.hotkeys[norm] = reg

	go b.listen(reg, norm, handler)

	b.logger.Debug("registered shortcut", "accel", norm)
	return nil
}

// listen dispatches keydown events until the registration is stopped.
func (b *HotkeyBackend) listen(reg *registration, accel string, handler func()) {
	defer close(reg.doneCh)
	for {
		select {
		case <-reg.hk.Keydown():
			b.logger.Debug("shortcut triggered", "accel", accel)
			handler()
		case <-reg.stopCh:
			return
		}
	}
}

// Unregister releases an accelerator and stops its listener.
func (b *HotkeyBackend) Unregister(accel string) {
	norm := Normalize(accel)

	b.mu.Lock()
	reg, exists := b.hotkeys[norm]
	if exists {
		delete(b.hotkeys, norm)
	}
	b.mu.Unlock()

	if !exists {
		return
	}

	close(reg.stopCh)
	<-reg.doneCh
	if err := reg.hk.Unregister(); err != nil {
		b.logger.Warn("failed to unregister shortcut", "accel", norm, "error", err)
	}
	b.logger.Debug("unregistered shortcut", "accel", norm)
}

// IsRegistered reports whether this backend holds the accelerator.
func (b *HotkeyBackend) IsRegistered(accel string) bool {
	norm := Normalize(accel)

	b.mu.Lock()
	defer b.mu.Unlock()
	_, exists := b.hotkeys[norm]
	return exists
}

// Close releases all accelerators and stops their listeners.
func (b *HotkeyBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	regs := b.hotkeys
	b.hotkeys = make(map[string]*registration)
	b.mu.Unlock()

	for accel, reg := range regs {
		close(reg.stopCh)
		<-reg.doneCh
		if err := reg.hk.Unregister(); err != nil {
			b.logger.Warn("failed to unregister shortcut", "accel", accel, "error", err)
		}
	}

	b.logger.Debug("shortcut backend closed", "released", len(regs))
	return nil
}
