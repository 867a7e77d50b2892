// Package dbusapi exports the positioner on the session bus under the
// GNOME Shell extension's object path and interface, and provides a client
// for calling it.
package dbusapi

import (
	"fmt"

	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog"
)

const (
	ObjectPath     dbus.ObjectPath = "/org/gnome/Shell/WindowPositioner"
	Interface                      = "org.gnome.Shell.WindowPositioner"
	DefaultBusName                 = Interface
)

// Server owns the session-bus export.
type Server struct {
	busName    string
	dispatcher *positioner.Dispatcher
	conn       *dbus.Conn
	log        *zerolog.Logger
}

// NewServer creates a server that will claim busName on Start.
func NewServer(busName string, dispatcher *positioner.Dispatcher) *Server {
	if busName == "" {
		busName = DefaultBusName
	}
	return &Server{
		busName:    busName,
		dispatcher: dispatcher,
		log:        logging.WithComponent("dbus"),
	}
}

// Start connects to the session bus, exports the object and claims the name.
func (s *Server) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := s.export(conn); err != nil {
		conn.Close()
		return err
	}
	s.conn = conn
	s.log.Info().
		Str("name", s.busName).
		Str("path", string(ObjectPath)).
		Msg("D-Bus interface exported")
	return nil
}

func (s *Server) export(conn *dbus.Conn) error {
	if err := conn.ExportMethodTable(MethodTable(s.dispatcher), ObjectPath, Interface); err != nil {
		return fmt.Errorf("failed to export %s: %w", Interface, err)
	}
	node := Node()
	if err := conn.Export(introspect.NewIntrospectable(&node), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection data: %w", err)
	}

	reply, err := conn.RequestName(s.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name %s: %w", s.busName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", s.busName)
	}
	return nil
}

// Stop releases the name and closes the connection.
func (s *Server) Stop() {
	if s.conn == nil {
		return
	}
	if _, err := s.conn.ReleaseName(s.busName); err != nil {
		s.log.Warn().Err(err).Msg("Failed to release bus name")
	}
	s.conn.Close()
	s.conn = nil
	s.log.Info().Msg("D-Bus interface unexported")
}

// MethodTable maps every operation name to a handler with the exact wire
// signature. godbus rejects calls whose arguments do not match.
func MethodTable(d *positioner.Dispatcher) map[string]interface{} {
	return map[string]interface{}{
		string(positioner.OpPositionWindow): func(windowTitle string, x, y, width, height int32) (bool, *dbus.Error) {
			return d.PositionWindow(windowTitle, int(x), int(y), int(width), int(height)), nil
		},
		string(positioner.OpPositionWindowByClass): func(wmClass string, x, y, width, height int32) (bool, *dbus.Error) {
			return d.PositionWindowByClass(wmClass, int(x), int(y), int(width), int(height)), nil
		},
		string(positioner.OpPositionWindowByClassAndTitle): func(wmClass, titlePattern string, x, y, width, height int32) (bool, *dbus.Error) {
			return d.PositionWindowByClassAndTitle(wmClass, titlePattern, int(x), int(y), int(width), int(height)), nil
		},
		string(positioner.OpGetActiveWindowInfo): func() (string, *dbus.Error) {
			return d.GetActiveWindowInfo(), nil
		},
		string(positioner.OpGetMonitorInfo): func() (string, *dbus.Error) {
			return d.GetMonitorInfo(), nil
		},
		string(positioner.OpGetWindowInfo): func(windowTitle string) (string, *dbus.Error) {
			return d.GetWindowInfo(windowTitle), nil
		},
	}
}

// Node returns the introspection data for ObjectPath.
func Node() introspect.Node {
	methods := make([]introspect.Method, 0, len(positioner.Specs))
	for _, spec := range positioner.Specs {
		m := introspect.Method{Name: string(spec.Op)}
		for _, in := range spec.In {
			m.Args = append(m.Args, introspect.Arg{Name: in.Name, Type: string(in.Type), Direction: "in"})
		}
		m.Args = append(m.Args, introspect.Arg{Name: spec.Out.Name, Type: string(spec.Out.Type), Direction: "out"})
		methods = append(methods, m)
	}

	return introspect.Node{
		Name: string(ObjectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{Name: Interface, Methods: methods},
		},
	}
}
