package daemon

import (
	"fmt"

	godbus "github.com/godbus/dbus/v5"

	"github.com/jmylchreest/timedated/internal/dbus"
)

// RegistrationState is the position of the daemon in its registration
// lifecycle.
type RegistrationState int

const (
	StateUnregistered RegistrationState = iota
	StateNameRequested
	StateOwned
	StateTerminated
)

// String returns the string representation of the state.
func (s RegistrationState) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateNameRequested:
		return "name-requested"
	case StateOwned:
		return "owned"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// EventKind identifies an event delivered to the registrar.
type EventKind int

const (
	// EventBusAcquired: a bus connection is available for export.
	EventBusAcquired EventKind = iota + 1
	// EventNameAcquired: the well-known name is owned.
	EventNameAcquired
	// EventNameLost: the name could not be obtained, was taken away, or
	// the connection failed.
	EventNameLost
	// EventConfigChanged: the configuration file changed on disk.
	EventConfigChanged
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventBusAcquired:
		return "bus-acquired"
	case EventNameAcquired:
		return "name-acquired"
	case EventNameLost:
		return "name-lost"
	case EventConfigChanged:
		return "config-changed"
	default:
		return "unknown"
	}
}

// Event is one input to the registration state machine.
type Event struct {
	Kind EventKind

	// Bus is set for EventBusAcquired.
	Bus Bus

	// Connected distinguishes, for EventNameLost, a lost or refused name
	// (true) from a connection that failed or dropped (false).
	Connected bool

	// Err carries the underlying failure, if any.
	Err error
}

// Bus is the slice of a bus connection the registrar needs.
// *dbus.Server implements it.
type Bus interface {
	Export(obj *dbus.Timedate1) error
	RequestName(name string) (owned bool, err error)
	ReleaseName(name string) error
	Signals() <-chan *godbus.Signal
	Close() error
}

// Dialer opens a bus connection.
type Dialer func() (Bus, error)

// DaemonState is everything the registrar owns. It is only touched from
// the event loop goroutine.
type DaemonState struct {
	State    RegistrationState
	Bus      Bus
	Object   *dbus.Timedate1
	Timezone string
	Exported bool
}

// FatalError is returned by the state machine for conditions that must
// end the process.
type FatalError struct {
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
