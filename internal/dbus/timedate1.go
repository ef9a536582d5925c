package dbus

import (
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// ErrNotSupported is the D-Bus error name returned by unimplemented setters.
const ErrNotSupported = "org.freedesktop.DBus.Error.NotSupported"

// PropertyTimezone is the name of the published property.
const PropertyTimezone = "Timezone"

// Timedate1 is the object exported at the timedate1 object path.
// It holds the published timezone; the setter methods are declared for
// compatibility and all fail with NotSupported.
type Timedate1 struct {
	mu       sync.RWMutex
	timezone string
	props    *prop.Properties
}

// NewTimedate1 creates a Timedate1 publishing timezone.
func NewTimedate1(timezone string) *Timedate1 {
	return &Timedate1{timezone: timezone}
}

// Timezone returns the published value.
func (t *Timedate1) Timezone() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.timezone
}

// SetTimezoneValue replaces the published value. Once exported, the
// change is mirrored into the Properties interface, which emits
// PropertiesChanged.
func (t *Timedate1) SetTimezoneValue(tz string) {
	t.mu.Lock()
	t.timezone = tz
	props := t.props
	t.mu.Unlock()

	if props != nil {
		props.SetMust(Interface, PropertyTimezone, tz)
	}
}

// propertyMap describes the exported properties.
func (t *Timedate1) propertyMap() prop.Map {
	return prop.Map{
		Interface: {
			PropertyTimezone: {
				Value:    t.Timezone(),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	}
}

func (t *Timedate1) bind(props *prop.Properties) {
	t.mu.Lock()
	t.props = props
	t.mu.Unlock()
}

func notSupported(method string) *dbus.Error {
	return dbus.NewError(ErrNotSupported, []interface{}{method + " is not supported"})
}

// SetTime is not supported.
// D-Bus method: SetTime(xbb)
func (t *Timedate1) SetTime(usecUTC int64, relative bool, interactive bool) *dbus.Error {
	return notSupported("SetTime")
}

// SetTimezone is not supported; the published value follows the
// configuration file.
// D-Bus method: SetTimezone(sb)
func (t *Timedate1) SetTimezone(timezone string, interactive bool) *dbus.Error {
	return notSupported("SetTimezone")
}

// SetLocalRTC is not supported.
// D-Bus method: SetLocalRTC(bbb)
func (t *Timedate1) SetLocalRTC(localRTC bool, fixSystem bool, interactive bool) *dbus.Error {
	return notSupported("SetLocalRTC")
}

// SetNTP is not supported.
// D-Bus method: SetNTP(bb)
func (t *Timedate1) SetNTP(useNTP bool, interactive bool) *dbus.Error {
	return notSupported("SetNTP")
}

// timedateMethods returns the D-Bus method introspection data.
func timedateMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "SetTime",
			Args: []introspect.Arg{
				{Name: "usec_utc", Type: "x", Direction: "in"},
				{Name: "relative", Type: "b", Direction: "in"},
				{Name: "interactive", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "SetTimezone",
			Args: []introspect.Arg{
				{Name: "timezone", Type: "s", Direction: "in"},
				{Name: "interactive", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "SetLocalRTC",
			Args: []introspect.Arg{
				{Name: "local_rtc", Type: "b", Direction: "in"},
				{Name: "fix_system", Type: "b", Direction: "in"},
				{Name: "interactive", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "SetNTP",
			Args: []introspect.Arg{
				{Name: "use_ntp", Type: "b", Direction: "in"},
				{Name: "interactive", Type: "b", Direction: "in"},
			},
		},
	}
}
