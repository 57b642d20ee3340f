// Package debounce provides a cancellable single-writer timer: the callback
// runs once the value has been idle for the configured delay.
package debounce

import (
	"sync"
	"time"
)

// Debouncer defers fn until Update has not been called for delay.
// At most one invocation is pending at any time and it always receives the latest value.
// Invocations never overlap, and Stop returns only after a running one has finished.
// fn must not call Stop or Flush on its own debouncer.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	call    sync.Mutex // held while fn runs
	mu      sync.Mutex
	timer   *time.Timer
	value   T
	seq     uint64 // bumped by every Update, Stop and Flush
	pending bool
	stopped bool
}

// New returns a Debouncer calling fn after delay of inactivity
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Update records v and restarts the idle timer, replacing any pending call.
// Updates after Stop are ignored.
func (d *Debouncer[T]) Update(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.value = v
	d.pending = true

	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire runs the callback unless a later Update, Stop or Flush superseded this timer
func (d *Debouncer[T]) fire(seq uint64) {
	d.call.Lock()
	defer d.call.Unlock()

	d.mu.Lock()
	if seq != d.seq || !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Flush runs a pending call immediately on the calling goroutine.
// It reports whether there was one.
func (d *Debouncer[T]) Flush() bool {
	d.call.Lock()
	defer d.call.Unlock()

	d.mu.Lock()
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	v := d.value
	d.pending = false
	d.mu.Unlock()

	d.fn(v)
	return true
}

// Stop cancels any pending call, waits for a running one and disables the debouncer.
// It reports whether a pending call was cancelled.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	cancelled := d.pending
	d.pending = false
	d.stopped = true
	d.mu.Unlock()

	d.call.Lock()
	defer d.call.Unlock()
	return cancelled
}

// Pending reports whether a call is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
