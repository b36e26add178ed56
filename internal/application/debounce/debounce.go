// Package debounce provides a cancellable delayed task that keeps at most
// one pending run.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently scheduled task once the delay has
// elapsed without a newer Schedule call.
//
// Every Schedule bumps a generation counter. A task receives the generation
// it was scheduled under and can ask IsCurrent before publishing results, so
// work that finishes after a newer keystroke can be dropped.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

// New returns a debouncer with the given quiescence delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiescence delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending task and schedules fn. It returns the
// generation assigned to fn.
func (d *Debouncer) Schedule(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn(gen)
	})
	d.timer = t
	return gen
}

// Cancel drops the pending task, if any, and invalidates every generation
// handed out so far.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Pending reports whether a task is waiting for its delay to elapse.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// IsCurrent reports whether gen is still the latest generation.
func (d *Debouncer) IsCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
