// Package debounce delays propagation of a rapidly changing value.
// Only the most recent value survives a burst; every update restarts
// the window. This is what keeps a price slider from re-querying on
// every pixel of a drag.
package debounce

import (
	"sync"
	"time"
)

type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(T)
	timer   *time.Timer
	stopped bool
}

// New creates a debouncer that calls emit with the latest value once
// it has been stable for the full delay. emit runs on the timer
// goroutine.
func New[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, emit: emit}
}

// Set replaces any pending value and restarts the window.
func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.emit(value)
	})
}

// Stop cancels any pending emit and rejects further Set calls.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
