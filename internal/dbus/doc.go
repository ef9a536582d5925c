// Package dbus implements the org.freedesktop.timedate1 D-Bus interface.
// It provides the exported Timedate1 object, a Server that owns the
// connection and well-known name, and a small client used by tzctl to
// read the published Timezone property.
package dbus
