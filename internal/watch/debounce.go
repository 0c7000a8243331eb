// Package watch reloads input files as they change on disk.
package watch

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window used when none is configured.
const DefaultDebounce = 200 * time.Millisecond

// Debouncer coalesces bursts of values into a single delivery of the latest one.
// It holds at most one pending timer, reset on every Trigger.
type Debouncer struct {
	// fireMu is held for a whole delivery so Stop can wait one out.
	fireMu  sync.Mutex
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending string
	gen     uint64
	stopped bool
	fire    func(string)
}

// NewDebouncer returns a Debouncer delivering values to fn after delay of quiet.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fire: fn}
}

// Trigger records value as the latest and restarts the quiet window.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = value
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.deliver(gen)
	})
}

func (d *Debouncer) deliver(gen uint64) {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		// Superseded by a newer Trigger.
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.mu.Unlock()
	d.fire(value)
}

// Stop cancels any pending delivery and waits for one already running, so
// nothing is delivered once Stop returns. Later Triggers are ignored. The
// callback must not call Stop.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	// Wait out a delivery that passed its check before stopped was set.
	d.fireMu.Lock()
	d.fireMu.Unlock()
}
