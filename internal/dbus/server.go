package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/spot/internal/model"
)

const (
	// BusName is the well-known name the daemon claims.
	BusName = "dev.jmylchreest.spot"
	// ObjectPath is the panel registry object path.
	ObjectPath = "/dev/jmylchreest/spot"
	// Interface is the panel control interface name.
	Interface = "dev.jmylchreest.spot.Panels"
)

// D-Bus error names returned by the Panels interface.
const (
	errUnknownPanel = Interface + ".Error.UnknownPanel"
	errClosed       = Interface + ".Error.Closed"
	errInternal     = Interface + ".Error.Failed"
)

// Controller is the registry surface the D-Bus methods drive.
// *panel.Registry satisfies it.
type Controller interface {
	Show(label, source string) error
	Hide(label, source string) error
	Toggle(label, source string) error
	HideAll(source string) error
	Visible(label string) (bool, error)
	Status() []model.PanelStatus
	Count() int
	VisibleCount() int
}

// ServerInfo describes the daemon for GetStatus responses.
type ServerInfo struct {
	Version       string
	Backend       string
	BackendDetail string
}

// PanelServer exports the panel registry on the session bus.
type PanelServer struct {
	conn       *dbus.Conn
	logger     *slog.Logger
	controller Controller

	mu      sync.Mutex
	info    ServerInfo
	running bool
}

// NewPanelServer creates a new PanelServer driving the given controller.
func NewPanelServer(controller Controller, logger *slog.Logger) *PanelServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PanelServer{
		controller: controller,
		logger:     logger,
	}
}

// SetServerInfo sets the daemon details reported by GetStatus.
func (s *PanelServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

// Start connects to the session bus, exports the object, and claims the name.
func (s *PanelServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	// Export the panel server object
	if err := conn.Export(s, ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	// Export introspection data
	node := &introspect.Node{
		Name: ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: panelMethods(),
				Signals: panelSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ObjectPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	// Request the bus name
	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus panel server started", "interface", Interface, "path", ObjectPath)
	return nil
}

// Stop releases the bus name.
func (s *PanelServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		_, err := s.conn.ReleaseName(BusName)
		if err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus panel server stopped")
	return nil
}

// Show makes a panel visible.
// D-Bus method: Show(s) -> nothing
// An unmanaged label is a silent no-op, matching the registry contract.
func (s *PanelServer) Show(label string) *dbus.Error {
	s.logger.Debug("Show called", "label", label)
	if err := s.controller.Show(label, model.SourceDBus); err != nil {
		return s.mapError(err, label)
	}
	return nil
}

// Hide makes a panel invisible.
// D-Bus method: Hide(s) -> nothing
// An unmanaged label is a silent no-op, matching the registry contract.
func (s *PanelServer) Hide(label string) *dbus.Error {
	s.logger.Debug("Hide called", "label", label)
	if err := s.controller.Hide(label, model.SourceDBus); err != nil {
		return s.mapError(err, label)
	}
	return nil
}

// Toggle flips a panel's visibility and returns the resulting state.
// D-Bus method: Toggle(s) -> b
// Unlike Show and Hide there is no silent no-op here: the caller asked for
// the resulting state, and an unmanaged label has none to report.
func (s *PanelServer) Toggle(label string) (bool, *dbus.Error) {
	s.logger.Debug("Toggle called", "label", label)

	if _, err := s.controller.Visible(label); err != nil {
		return false, s.mapError(err, label)
	}
	if err := s.controller.Toggle(label, model.SourceDBus); err != nil {
		return false, s.mapError(err, label)
	}
	visible, err := s.controller.Visible(label)
	if err != nil {
		return false, s.mapError(err, label)
	}
	return visible, nil
}

// HideAll hides every visible panel.
// D-Bus method: HideAll() -> nothing
func (s *PanelServer) HideAll() *dbus.Error {
	s.logger.Debug("HideAll called")
	if err := s.controller.HideAll(model.SourceDBus); err != nil {
		return s.mapError(err, "")
	}
	return nil
}

// ListPanels returns a snapshot of every managed panel.
// D-Bus method: ListPanels() -> aa{sv}
func (s *PanelServer) ListPanels() ([]map[string]dbus.Variant, *dbus.Error) {
	s.logger.Debug("ListPanels called")

	statuses := s.controller.Status()
	out := make([]map[string]dbus.Variant, 0, len(statuses))
	for _, ps := range statuses {
		out = append(out, PanelStatusToVariant(ps))
	}
	return out, nil
}

// GetStatus returns a summary of the running daemon.
// D-Bus method: GetStatus() -> a{sv}
func (s *PanelServer) GetStatus() (map[string]dbus.Variant, *dbus.Error) {
	s.logger.Debug("GetStatus called")

	s.mu.Lock()
	info := s.info
	s.mu.Unlock()

	status := model.DaemonStatus{
		Running:       true,
		Version:       info.Version,
		Backend:       info.Backend,
		BackendDetail: info.BackendDetail,
		PanelCount:    s.controller.Count(),
		VisibleCount:  s.controller.VisibleCount(),
	}
	return DaemonStatusToVariant(status), nil
}

// mapError converts registry errors to D-Bus errors.
func (s *PanelServer) mapError(err error, label string) *dbus.Error {
	switch {
	case isNotFound(err):
		return dbus.NewError(errUnknownPanel, []interface{}{fmt.Sprintf("no panel with label %q", label)})
	case isClosed(err):
		return dbus.NewError(errClosed, []interface{}{"panel registry is closed"})
	default:
		return dbus.NewError(errInternal, []interface{}{err.Error()})
	}
}

// panelMethods returns the D-Bus method introspection data.
func panelMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Show",
			Args: []introspect.Arg{
				{Name: "label", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "Hide",
			Args: []introspect.Arg{
				{Name: "label", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "Toggle",
			Args: []introspect.Arg{
				{Name: "label", Type: "s", Direction: "in"},
				{Name: "visible", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "HideAll",
		},
		{
			Name: "ListPanels",
			Args: []introspect.Arg{
				{Name: "panels", Type: "aa{sv}", Direction: "out"},
			},
		},
		{
			Name: "GetStatus",
			Args: []introspect.Arg{
				{Name: "status", Type: "a{sv}", Direction: "out"},
			},
		},
	}
}

// panelSignals returns the D-Bus signal introspection data.
func panelSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "PanelRegistered",
			Args: []introspect.Arg{
				{Name: "label", Type: "s"},
			},
		},
		{
			Name: "PanelShown",
			Args: []introspect.Arg{
				{Name: "label", Type: "s"},
			},
		},
		{
			Name: "PanelHidden",
			Args: []introspect.Arg{
				{Name: "label", Type: "s"},
			},
		},
	}
}
