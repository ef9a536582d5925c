package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimedate1_Timezone(t *testing.T) {
	obj := NewTimedate1("Europe/Warsaw")
	assert.Equal(t, "Europe/Warsaw", obj.Timezone())

	obj.SetTimezoneValue("UTC")
	assert.Equal(t, "UTC", obj.Timezone())
}

func TestTimedate1_UnsetTimezone(t *testing.T) {
	obj := NewTimedate1("")
	assert.Equal(t, "", obj.Timezone())
}

func TestTimedate1_SettersNotSupported(t *testing.T) {
	obj := NewTimedate1("UTC")

	tests := []struct {
		name string
		call func() *dbus.Error
	}{
		{"SetTime", func() *dbus.Error { return obj.SetTime(0, false, false) }},
		{"SetTimezone", func() *dbus.Error { return obj.SetTimezone("Europe/Warsaw", true) }},
		{"SetLocalRTC", func() *dbus.Error { return obj.SetLocalRTC(true, false, false) }},
		{"SetNTP", func() *dbus.Error { return obj.SetNTP(true, false) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.NotNil(t, err)
			assert.Equal(t, ErrNotSupported, err.Name)
			require.Len(t, err.Body, 1)
			assert.Contains(t, err.Body[0], tt.name)
		})
	}

	// A rejected SetTimezone must not touch the published value.
	assert.Equal(t, "UTC", obj.Timezone())
}

func TestTimedate1_PropertyMap(t *testing.T) {
	obj := NewTimedate1("Asia/Tokyo")

	props := obj.propertyMap()
	require.Contains(t, props, Interface)
	p := props[Interface][PropertyTimezone]
	require.NotNil(t, p)
	assert.Equal(t, "Asia/Tokyo", p.Value)
	assert.False(t, p.Writable)
	assert.Equal(t, prop.EmitTrue, p.Emit)
}

func TestTimedateMethods(t *testing.T) {
	methods := timedateMethods()

	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"SetTime", "SetTimezone", "SetLocalRTC", "SetNTP"}, names)
}

func TestLostName(t *testing.T) {
	name, ok := LostName(NameLostSignal(BusName))
	assert.True(t, ok)
	assert.Equal(t, BusName, name)

	tests := []struct {
		name string
		sig  *dbus.Signal
	}{
		{"nil", nil},
		{"other member", &dbus.Signal{Path: driverPath, Name: driverInterface + ".NameAcquired", Body: []interface{}{BusName}}},
		{"other path", &dbus.Signal{Path: "/elsewhere", Name: driverInterface + ".NameLost", Body: []interface{}{BusName}}},
		{"empty body", &dbus.Signal{Path: driverPath, Name: driverInterface + ".NameLost"}},
		{"wrong body type", &dbus.Signal{Path: driverPath, Name: driverInterface + ".NameLost", Body: []interface{}{uint32(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := LostName(tt.sig)
			assert.False(t, ok)
		})
	}
}
