package daemon

import (
	"context"

	"github.com/jmylchreest/timedated/internal/dbus"
)

// Run drives reg through connection, export and name acquisition, then
// serves until ctx is cancelled or a fatal event occurs. Every event is
// handled on the calling goroutine.
//
// A *FatalError is returned as soon as the registrar reports one; the
// caller is expected to exit. Cancellation tears the registration down
// and returns only the teardown error, if any.
func Run(ctx context.Context, dial Dialer, reg *Registrar, changes <-chan struct{}) error {
	reg.Start()

	bus, err := dial()
	if err != nil {
		return reg.Handle(Event{Kind: EventNameLost, Connected: false, Err: err})
	}

	// Subscribe before requesting the name so a NameLost racing the reply
	// is not missed.
	signals := bus.Signals()

	if err := reg.Handle(Event{Kind: EventBusAcquired, Bus: bus}); err != nil {
		return err
	}

	owned, err := bus.RequestName(reg.Name())
	if err != nil || !owned {
		return reg.Handle(Event{Kind: EventNameLost, Connected: true, Err: err})
	}
	if err := reg.Handle(Event{Kind: EventNameAcquired}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return reg.Teardown()

		case sig, ok := <-signals:
			if !ok {
				return reg.Handle(Event{Kind: EventNameLost, Connected: false})
			}
			if name, lost := dbus.LostName(sig); lost && name == reg.Name() {
				if err := reg.Handle(Event{Kind: EventNameLost, Connected: true}); err != nil {
					return err
				}
			}

		case <-changes:
			if err := reg.Handle(Event{Kind: EventConfigChanged}); err != nil {
				return err
			}
		}
	}
}
