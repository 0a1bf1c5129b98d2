package engine

import (
	"sync"
	"time"
)

// Clock abstracts timer creation so the debounce window can be driven
// by a virtual clock in tests.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is the stoppable handle a Clock hands out.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NewRealClock returns a Clock backed by the runtime's timers.
func NewRealClock() Clock { return realClock{} }

// Debouncer coalesces rapid task submissions per key: only the last
// task scheduled within the quiet window runs. It owns its pending
// timer handles, so teardown can drop everything still in flight.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	clock   Clock
	pending map[string]Timer
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration, clock Clock) *Debouncer {
	return &Debouncer{
		window:  window,
		clock:   clock,
		pending: make(map[string]Timer),
	}
}

// Schedule queues fn to run after the quiet window. A pending task for
// the same key is superseded: its timer is stopped and only fn will
// run.
func (d *Debouncer) Schedule(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.pending[key]; ok {
		timer.Stop()
	}

	d.pending[key] = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
}

// CancelAll drops every pending task without running it. Called on
// page-context teardown: values still inside the quiet window are
// deliberately lost.
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, timer := range d.pending {
		timer.Stop()
		delete(d.pending, key)
	}
}

// PendingCount reports how many keys have tasks waiting.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
