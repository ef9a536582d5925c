package dbus

import (
	"github.com/godbus/dbus/v5"
)

const (
	driverInterface = "org.freedesktop.DBus"
	driverPath      = dbus.ObjectPath("/org/freedesktop/DBus")
)

// LostName returns the name carried by a NameLost signal from the bus
// driver. ok is false for any other signal.
func LostName(sig *dbus.Signal) (name string, ok bool) {
	if sig == nil || sig.Name != driverInterface+".NameLost" || sig.Path != driverPath {
		return "", false
	}
	if len(sig.Body) < 1 {
		return "", false
	}
	name, ok = sig.Body[0].(string)
	return name, ok
}

// NameLostSignal builds the signal the bus driver sends when name is lost.
func NameLostSignal(name string) *dbus.Signal {
	return &dbus.Signal{
		Sender: driverInterface,
		Path:   driverPath,
		Name:   driverInterface + ".NameLost",
		Body:   []interface{}{name},
	}
}
