package dbus

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/spot/internal/model"
)

// PanelSignal is a decoded panel lifecycle signal from the daemon.
type PanelSignal struct {
	Kind  model.EventKind
	Label string
}

// SignalWatcher subscribes to the daemon's panel signals so the TUI and
// long-running CLI commands can react to transitions as they happen.
type SignalWatcher struct {
	conn   *dbus.Conn
	logger *slog.Logger

	in  chan *dbus.Signal
	out chan PanelSignal

	closeOnce sync.Once
}

// Watch subscribes to panel signals from a running daemon.
// Close the watcher to release the match rule.
func (c *Client) Watch(logger *slog.Logger) (*SignalWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := c.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(ObjectPath)),
		dbus.WithMatchInterface(Interface),
	); err != nil {
		return nil, fmt.Errorf("failed to add signal match: %w", err)
	}

	w := &SignalWatcher{
		conn:   c.conn,
		logger: logger,
		in:     make(chan *dbus.Signal, 64),
		out:    make(chan PanelSignal, 16),
	}
	c.conn.Signal(w.in)

	go w.translate()

	logger.Debug("watching panel signals", "interface", Interface)
	return w, nil
}

// Signals returns the channel of decoded panel signals.
// The channel is closed when the watcher is closed.
func (w *SignalWatcher) Signals() <-chan PanelSignal {
	return w.out
}

// translate decodes raw bus signals into PanelSignals.
func (w *SignalWatcher) translate() {
	defer close(w.out)

	for sig := range w.in {
		if sig.Path != dbus.ObjectPath(ObjectPath) {
			continue
		}

		var kind model.EventKind
		switch {
		case strings.HasSuffix(sig.Name, ".PanelRegistered"):
			kind = model.EventRegistered
		case strings.HasSuffix(sig.Name, ".PanelShown"):
			kind = model.EventShown
		case strings.HasSuffix(sig.Name, ".PanelHidden"):
			kind = model.EventHidden
		default:
			continue
		}

		label, ok := signalLabel(sig)
		if !ok {
			w.logger.Warn("malformed panel signal", "name", sig.Name)
			continue
		}

		// Non-blocking send so a stalled consumer cannot back up the bus reader
		select {
		case w.out <- PanelSignal{Kind: kind, Label: label}:
		default:
			w.logger.Debug("dropping panel signal, consumer not keeping up",
				"kind", kind, "label", label)
		}
	}
}

// signalLabel extracts the label argument from a panel signal.
func signalLabel(sig *dbus.Signal) (string, bool) {
	if len(sig.Body) < 1 {
		return "", false
	}
	label, ok := sig.Body[0].(string)
	return label, ok
}

// Close removes the match rule and stops signal delivery.
func (w *SignalWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.conn.RemoveMatchSignal(
			dbus.WithMatchObjectPath(dbus.ObjectPath(ObjectPath)),
			dbus.WithMatchInterface(Interface),
		)
		// RemoveSignal guarantees no further sends on the channel, so
		// closing it here lets the translate goroutine drain and exit.
		w.conn.RemoveSignal(w.in)
		close(w.in)
	})
	return err
}
