package daemon

import (
	"errors"
	"sync"

	godbus "github.com/godbus/dbus/v5"

	"github.com/jmylchreest/timedated/internal/dbus"
)

// fakeBus records calls made by the registrar.
type fakeBus struct {
	mu sync.Mutex

	exportErr  error
	requestErr error
	owned      bool

	exported []*dbus.Timedate1
	requests []string
	released []string
	closed   int

	signals chan *godbus.Signal
}

func newFakeBus() *fakeBus {
	return &fakeBus{owned: true, signals: make(chan *godbus.Signal, 4)}
}

func (b *fakeBus) Export(obj *dbus.Timedate1) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.exportErr != nil {
		return b.exportErr
	}
	b.exported = append(b.exported, obj)
	return nil
}

func (b *fakeBus) RequestName(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, name)
	return b.owned, b.requestErr
}

func (b *fakeBus) ReleaseName(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = append(b.released, name)
	return nil
}

func (b *fakeBus) Signals() <-chan *godbus.Signal {
	return b.signals
}

func (b *fakeBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

func (b *fakeBus) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func (b *fakeBus) dialer() Dialer {
	return func() (Bus, error) { return b, nil }
}

func failingDialer(err error) Dialer {
	return func() (Bus, error) { return nil, err }
}

// fakeReadiness counts Ready calls and signals each one on fired.
type fakeReadiness struct {
	mu       sync.Mutex
	err      error
	calls    int
	cleanups int
	fired    chan struct{}
}

func newFakeReadiness() *fakeReadiness {
	return &fakeReadiness{fired: make(chan struct{}, 4)}
}

func (r *fakeReadiness) Ready() error {
	r.mu.Lock()
	r.calls++
	err := r.err
	r.mu.Unlock()
	r.fired <- struct{}{}
	return err
}

func (r *fakeReadiness) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups++
	return nil
}

func (r *fakeReadiness) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

var errBoom = errors.New("boom")
