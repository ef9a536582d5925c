package dbus

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	// Interface is the timedate1 interface name.
	Interface = "org.freedesktop.timedate1"
	// ObjectPath is the default object path.
	ObjectPath = "/org/freedesktop/timedate1"
	// BusName is the default well-known name to claim.
	BusName = "org.freedesktop.timedate1"
)

// Server owns a private bus connection on which a Timedate1 object is
// exported and the well-known name is requested.
type Server struct {
	conn    *dbus.Conn
	path    dbus.ObjectPath
	logger  *slog.Logger
	signals chan *dbus.Signal
}

// Connect opens a private connection to the system bus, or the session bus
// when session is true, and subscribes to the bus driver's name-ownership
// signals. The object will be exported at path.
func Connect(session bool, path string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		conn *dbus.Conn
		err  error
	)
	if session {
		conn, err = dbus.ConnectSessionBus()
	} else {
		conn, err = dbus.ConnectSystemBus()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bus: %w", err)
	}

	return newServer(conn, dbus.ObjectPath(path), logger)
}

func newServer(conn *dbus.Conn, path dbus.ObjectPath, logger *slog.Logger) (*Server, error) {
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(driverPath),
		dbus.WithMatchInterface(driverInterface),
		dbus.WithMatchMember("NameLost"),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to subscribe to NameLost: %w", err)
	}

	s := &Server{
		conn:    conn,
		path:    path,
		logger:  logger,
		signals: make(chan *dbus.Signal, 16),
	}
	conn.Signal(s.signals)
	return s, nil
}

// Export publishes obj with its Properties and Introspectable interfaces.
func (s *Server) Export(obj *Timedate1) error {
	if err := s.conn.Export(obj, s.path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	props, err := prop.Export(s.conn, s.path, obj.propertyMap())
	if err != nil {
		return fmt.Errorf("failed to export properties: %w", err)
	}
	obj.bind(props)

	node := &introspect.Node{
		Name: string(s.path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       Interface,
				Methods:    timedateMethods(),
				Properties: props.Introspection(Interface),
			},
		},
	}
	if err := s.conn.Export(introspect.NewIntrospectable(node), s.path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	s.logger.Debug("exported interface", "interface", Interface, "path", s.path)
	return nil
}

// RequestName asks the bus for sole ownership of name without queueing.
// owned is false when another connection already holds it.
func (s *Server) RequestName(name string) (owned bool, err error) {
	reply, err := s.conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return false, fmt.Errorf("failed to request bus name: %w", err)
	}
	switch reply {
	case dbus.RequestNameReplyPrimaryOwner, dbus.RequestNameReplyAlreadyOwner:
		return true, nil
	default:
		return false, nil
	}
}

// ReleaseName gives up ownership of name.
func (s *Server) ReleaseName(name string) error {
	if _, err := s.conn.ReleaseName(name); err != nil {
		return fmt.Errorf("failed to release bus name: %w", err)
	}
	return nil
}

// Signals delivers bus driver signals. The channel is closed when the
// connection terminates.
func (s *Server) Signals() <-chan *dbus.Signal {
	return s.signals
}

// Close closes the connection.
func (s *Server) Close() error {
	return s.conn.Close()
}
