package services

import (
	"sync"
	"time"

	"github.com/abrezinsky/raffledraw/internal/clock"
)

// Debouncer coalesces bursts of Trigger calls into one call of fn, made once
// delay has passed without another Trigger.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer clock.Timer
	gen   uint64
}

// NewDebouncer creates a Debouncer that calls fn after delay of quiet
func NewDebouncer(clk clock.Clock, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: clk, delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs fn now if a call is pending. It reports whether fn ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	pending := d.timer != nil
	d.cancelLocked()
	d.mu.Unlock()

	if pending {
		d.fn()
	}
	return pending
}

// Stop drops a pending call without running it
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.timer != nil
	d.cancelLocked()
	return pending
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs fn unless the timer was superseded after it was scheduled
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	d.fn()
}
