// Package debounce republishes a rapidly changing value only after it has
// stopped changing for a quiet period.
//
// Debouncer is the timer-driven form for plain goroutine code. Gate is the
// bubbletea form: it schedules tea.Tick commands and filters the resulting
// messages inside Update, so the settled value is delivered on the event
// loop like any other message.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used when none is configured.
const DefaultQuiet = 500 * time.Millisecond

// Debouncer calls publish with the latest pushed value once no new value
// has been pushed for the quiet period.
type Debouncer[T any] struct {
	mu      sync.Mutex
	quiet   time.Duration
	publish func(T)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New returns a Debouncer. A non-positive quiet period uses DefaultQuiet.
// publish runs on a timer goroutine while the debouncer's lock is held, so
// it must not call Push or Stop on the same Debouncer.
func New[T any](quiet time.Duration, publish func(T)) *Debouncer[T] {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer[T]{quiet: quiet, publish: publish}
}

// Push records v and restarts the countdown, discarding any pending publish.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.quiet, func() {
		d.fire(gen, v)
	})
}

// A timer that already fired can lose the race against Push or Stop; the
// generation check drops it.
func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || gen != d.gen {
		return
	}
	d.timer = nil
	d.publish(v)
}

// Pending reports whether a publish is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil && !d.stopped
}

// Stop cancels any pending publish. Once Stop returns, publish is never
// called again and further pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
