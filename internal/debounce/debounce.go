// Package debounce coalesces rapid changes of a value into a single
// delayed "settled" value.
//
// Every Set cancels the pending timer and arms a new one; only a timer that
// runs out without being superseded updates the settled value. A generation
// counter backs up Stop, so a timer that already started firing when it was
// superseded still cannot overwrite newer state.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by NewDefault
const DefaultDelay = time.Second

// timer is the part of *time.Timer the debouncer needs
type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Debouncer holds the settled projection of a changing value.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	settled T
	latest  T
	pending timer
	gen     uint64
	closed  bool
	out     chan T
	after   afterFunc
}

// New returns a debouncer whose settled value starts as initial.
// A delay of zero or less settles on the next scheduling opportunity.
func New[T any](initial T, delay time.Duration) *Debouncer[T] {
	return newWithTimer(initial, delay, realAfterFunc)
}

// NewDefault is New with DefaultDelay.
func NewDefault[T any](initial T) *Debouncer[T] {
	return New(initial, DefaultDelay)
}

func newWithTimer[T any](initial T, delay time.Duration, after afterFunc) *Debouncer[T] {
	return &Debouncer[T]{
		delay:   clamp(delay),
		settled: initial,
		latest:  initial,
		out:     make(chan T, 1),
		after:   after,
	}
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// Set records a change of the input value and re-arms the quiet period.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.latest = v
	d.armLocked()
}

// SetDelay changes the quiet period. A pending change is re-armed with the new delay.
func (d *Debouncer[T]) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delay = clamp(delay)
	if d.closed || delay == d.delay {
		return
	}
	d.delay = delay
	if d.pending != nil {
		d.armLocked()
	}
}

// armLocked cancels the pending timer and starts a new one for d.latest
func (d *Debouncer[T]) armLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}

	d.gen++
	gen, v := d.gen, d.latest
	d.pending = d.after(d.delay, func() {
		d.fire(gen, v)
	})
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || gen != d.gen {
		return
	}
	d.settled = v
	d.pending = nil

	// latest wins: replace an unread notification
	select {
	case <-d.out:
	default:
	}
	select {
	case d.out <- v:
	default:
	}
}

// Value returns the settled value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Delay returns the current quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// Pending reports whether a change is waiting for its quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Settled delivers each settled value. Only the most recent unread value is kept.
// The channel is closed by Close.
func (d *Debouncer[T]) Settled() <-chan T {
	return d.out
}

// Close cancels the pending timer. Set is a no-op afterwards.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	close(d.out)
}
