package dbus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Client reads the published properties of a running timedated.
type Client struct {
	mu   sync.Mutex
	conn *dbus.Conn
	dest string
	path dbus.ObjectPath
}

// NewClient connects to the system bus, or the session bus when session
// is true, and targets the service owning dest at path.
func NewClient(session bool, dest, path string) (*Client, error) {
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
	return &Client{conn: conn, dest: dest, path: dbus.ObjectPath(path)}, nil
}

// Timezone returns the Timezone property of the service.
func (c *Client) Timezone() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return "", errors.New("closed")
	}
	tz, err := property[string](c.conn, c.dest, c.path, Interface+"."+PropertyTimezone)
	if err != nil {
		return "", fmt.Errorf("could not get time zone: %w", err)
	}
	return tz, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}

func property[T any](conn *dbus.Conn, dest string, path dbus.ObjectPath, name string) (T, error) {
	var v T
	p, err := conn.Object(dest, path).GetProperty(name)
	if err != nil {
		return v, err
	}
	v, ok := p.Value().(T)
	if !ok {
		return v, fmt.Errorf("invalid type %T for %s", p.Value(), name)
	}
	return v, nil
}
