package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/spot/internal/model"
)

// EmitPanelRegistered emits the PanelRegistered signal.
func (s *PanelServer) EmitPanelRegistered(label string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(ObjectPath, Interface+".PanelRegistered", label)
	if err != nil {
		return fmt.Errorf("failed to emit PanelRegistered signal: %w", err)
	}

	s.logger.Debug("emitted PanelRegistered signal", "label", label)
	return nil
}

// EmitPanelShown emits the PanelShown signal.
func (s *PanelServer) EmitPanelShown(label string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(ObjectPath, Interface+".PanelShown", label)
	if err != nil {
		return fmt.Errorf("failed to emit PanelShown signal: %w", err)
	}

	s.logger.Debug("emitted PanelShown signal", "label", label)
	return nil
}

// EmitPanelHidden emits the PanelHidden signal.
func (s *PanelServer) EmitPanelHidden(label string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(ObjectPath, Interface+".PanelHidden", label)
	if err != nil {
		return fmt.Errorf("failed to emit PanelHidden signal: %w", err)
	}

	s.logger.Debug("emitted PanelHidden signal", "label", label)
	return nil
}

// EmitEvent emits the signal matching a registry event. A hide-all marker
// carries no label and has no signal of its own; the per-panel hidden
// events that follow it are emitted individually.
func (s *PanelServer) EmitEvent(event *model.Event) error {
	switch event.Kind {
	case model.EventRegistered:
		return s.EmitPanelRegistered(event.Label)
	case model.EventShown:
		return s.EmitPanelShown(event.Label)
	case model.EventHidden:
		return s.EmitPanelHidden(event.Label)
	default:
		return nil
	}
}

// Connection returns the underlying D-Bus connection.
// This can be used for advanced operations like calling methods on other services.
func (s *PanelServer) Connection() *dbus.Conn {
	return s.conn
}
