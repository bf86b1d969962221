package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/spot/internal/model"
)

// clientError is a sentinel error for daemon call failures.
type clientError string

func (e clientError) Error() string { return string(e) }

const (
	// ErrDaemonNotRunning reports that nothing owns the daemon's bus name.
	ErrDaemonNotRunning = clientError("spot daemon is not running (is spotd started?)")

	// ErrUnknownPanel reports an operation on a label the daemon does not manage.
	ErrUnknownPanel = clientError("unknown panel label")
)

// serviceUnknown is the bus error for calls on an unclaimed name.
const serviceUnknown = "org.freedesktop.DBus.Error.ServiceUnknown"

// Client calls a running daemon over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and binds the daemon object.
// Connecting succeeds even when no daemon is running; the first call
// reports ErrDaemonNotRunning in that case.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, dbus.ObjectPath(ObjectPath)),
	}, nil
}

// Ping checks that a daemon is answering on the bus.
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}

// Show makes a panel visible. Unknown labels are a no-op.
func (c *Client) Show(label string) error {
	call := c.obj.Call(Interface+".Show", 0, label)
	return mapCallError(call.Err)
}

// Hide makes a panel invisible. Unknown labels are a no-op.
func (c *Client) Hide(label string) error {
	call := c.obj.Call(Interface+".Hide", 0, label)
	return mapCallError(call.Err)
}

// Toggle flips a panel's visibility and returns the resulting state.
func (c *Client) Toggle(label string) (bool, error) {
	var visible bool
	call := c.obj.Call(Interface+".Toggle", 0, label)
	if call.Err != nil {
		return false, mapCallError(call.Err)
	}
	if err := call.Store(&visible); err != nil {
		return false, fmt.Errorf("failed to decode Toggle reply: %w", err)
	}
	return visible, nil
}

// HideAll hides every visible panel.
func (c *Client) HideAll() error {
	call := c.obj.Call(Interface+".HideAll", 0)
	return mapCallError(call.Err)
}

// ListPanels returns a snapshot of every managed panel.
func (c *Client) ListPanels() ([]model.PanelStatus, error) {
	var raw []map[string]dbus.Variant
	call := c.obj.Call(Interface+".ListPanels", 0)
	if call.Err != nil {
		return nil, mapCallError(call.Err)
	}
	if err := call.Store(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode ListPanels reply: %w", err)
	}

	panels := make([]model.PanelStatus, 0, len(raw))
	for _, m := range raw {
		panels = append(panels, PanelStatusFromVariant(m))
	}
	return panels, nil
}

// Status returns a summary of the running daemon.
func (c *Client) Status() (model.DaemonStatus, error) {
	var raw map[string]dbus.Variant
	call := c.obj.Call(Interface+".GetStatus", 0)
	if call.Err != nil {
		return model.DaemonStatus{}, mapCallError(call.Err)
	}
	if err := call.Store(&raw); err != nil {
		return model.DaemonStatus{}, fmt.Errorf("failed to decode GetStatus reply: %w", err)
	}
	return DaemonStatusFromVariant(raw), nil
}

// Connection returns the underlying D-Bus connection.
func (c *Client) Connection() *dbus.Conn {
	return c.conn
}

// mapCallError converts bus-level call failures to client errors.
func mapCallError(err error) error {
	if err == nil {
		return nil
	}

	var busErr dbus.Error
	if errors.As(err, &busErr) {
		switch busErr.Name {
		case serviceUnknown:
			return ErrDaemonNotRunning
		case errUnknownPanel:
			return fmt.Errorf("%w: %s", ErrUnknownPanel, errorBody(busErr))
		case errClosed, errInternal:
			return fmt.Errorf("daemon error: %s", errorBody(busErr))
		}
	}
	return err
}

// errorBody extracts the human-readable message from a D-Bus error.
func errorBody(busErr dbus.Error) string {
	if len(busErr.Body) > 0 {
		if s, ok := busErr.Body[0].(string); ok {
			return s
		}
	}
	return busErr.Name
}
