package daemon

import (
	"errors"
	"log/slog"

	"github.com/jmylchreest/timedated/internal/dbus"
)

// Options configures a Registrar.
type Options struct {
	// Name is the well-known bus name to own.
	Name string
	// Timezone seeds the published value; empty leaves it unset.
	Timezone string
	// Reload re-reads the timezone after EventConfigChanged. Nil disables
	// reloading.
	Reload func() (string, bool)
	// Readiness fires once the name is owned.
	Readiness Readiness
	Logger    *slog.Logger
}

// Registrar owns the bus name, exports the Timedate1 object and escalates
// every failure along the way to a *FatalError.
//
// All methods must be called from a single goroutine.
type Registrar struct {
	name      string
	reload    func() (string, bool)
	readiness Readiness
	logger    *slog.Logger

	state DaemonState
}

// NewRegistrar creates a Registrar in StateUnregistered.
func NewRegistrar(opts Options) *Registrar {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = dbus.BusName
	}
	return &Registrar{
		name:      name,
		reload:    opts.Reload,
		readiness: opts.Readiness,
		logger:    logger,
		state: DaemonState{
			State:    StateUnregistered,
			Timezone: opts.Timezone,
		},
	}
}

// Name returns the well-known name being registered.
func (r *Registrar) Name() string {
	return r.name
}

// State returns the current registration state.
func (r *Registrar) State() RegistrationState {
	return r.state.State
}

// Object returns the exported object, or nil before export.
func (r *Registrar) Object() *dbus.Timedate1 {
	return r.state.Object
}

// Start records that ownership of the name has been requested.
func (r *Registrar) Start() {
	if r.state.State == StateUnregistered {
		r.state.State = StateNameRequested
		r.logger.Debug("requesting bus name", "name", r.name)
	}
}

// Handle applies ev to the state machine. A non-nil return is always a
// *FatalError; after it, the registrar is terminated and ignores further
// events.
func (r *Registrar) Handle(ev Event) error {
	if r.state.State == StateTerminated {
		r.logger.Debug("ignoring event after termination", "event", ev.Kind)
		return nil
	}

	switch ev.Kind {
	case EventBusAcquired:
		return r.onBusAcquired(ev)
	case EventNameAcquired:
		return r.onNameAcquired()
	case EventNameLost:
		return r.onNameLost(ev)
	case EventConfigChanged:
		r.onConfigChanged()
		return nil
	default:
		r.logger.Warn("ignoring unknown event", "event", ev.Kind)
		return nil
	}
}

func (r *Registrar) onBusAcquired(ev Event) error {
	r.Start()
	r.logger.Debug("acquired a message bus connection")

	if r.state.Exported {
		r.logger.Warn("bus acquired twice, keeping existing export")
		return nil
	}
	if ev.Bus == nil {
		return r.fail("bus acquired without a connection", nil)
	}

	obj := dbus.NewTimedate1(r.state.Timezone)
	if err := ev.Bus.Export(obj); err != nil {
		return r.fail("failed to export interface", err)
	}

	r.state.Bus = ev.Bus
	r.state.Object = obj
	r.state.Exported = true
	return nil
}

func (r *Registrar) onNameAcquired() error {
	if !r.state.Exported {
		return r.fail("name acquired before interface export", nil)
	}
	if r.state.State == StateOwned {
		return nil
	}

	r.state.State = StateOwned
	r.logger.Info("acquired the name", "name", r.name, "timezone", r.state.Timezone)

	if r.readiness != nil {
		if err := r.readiness.Ready(); err != nil {
			return r.fail("failed to signal readiness", err)
		}
	}
	return nil
}

func (r *Registrar) onNameLost(ev Event) error {
	owned := r.state.State == StateOwned
	switch {
	case !ev.Connected && owned:
		return r.fail("lost the bus connection", ev.Err)
	case !ev.Connected:
		return r.fail("failed to acquire a bus connection", ev.Err)
	case owned:
		return r.fail("lost bus name "+r.name, ev.Err)
	default:
		return r.fail("failed to acquire bus name "+r.name, ev.Err)
	}
}

func (r *Registrar) onConfigChanged() {
	if r.reload == nil {
		return
	}
	tz, ok := r.reload()
	if !ok {
		r.logger.Warn("timezone no longer configured, keeping published value", "timezone", r.state.Timezone)
		return
	}
	if tz == r.state.Timezone {
		return
	}

	r.logger.Info("timezone changed", "old", r.state.Timezone, "new", tz)
	r.state.Timezone = tz
	if r.state.Object != nil {
		r.state.Object.SetTimezoneValue(tz)
	}
}

func (r *Registrar) fail(reason string, err error) error {
	r.state.State = StateTerminated
	if err != nil {
		r.logger.Error(reason, "error", err)
	} else {
		r.logger.Error(reason)
	}
	return &FatalError{Reason: reason, Err: err}
}

// Teardown releases the name, closes the connection, cleans up readiness
// markers and resets the registrar to StateUnregistered.
func (r *Registrar) Teardown() error {
	var errs []error

	if r.state.Bus != nil {
		if r.state.State == StateOwned {
			if err := r.state.Bus.ReleaseName(r.name); err != nil {
				errs = append(errs, err)
			}
		}
		if err := r.state.Bus.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c, ok := r.readiness.(cleaner); ok {
		if err := c.Cleanup(); err != nil {
			errs = append(errs, err)
		}
	}

	r.state = DaemonState{State: StateUnregistered}
	r.logger.Debug("registration torn down", "name", r.name)
	return errors.Join(errs...)
}
