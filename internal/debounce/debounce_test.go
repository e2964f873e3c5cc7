package debounce

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock schedules timers against a manually advanced clock.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs every active timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	due := make([]*fakeTimer, 0)
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fired = true
		t.f()
	}
}

func (c *fakeClock) active() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func newFake[T any](initial T, delay time.Duration) (*Debouncer[T], *fakeClock) {
	clock := &fakeClock{}
	return newWithTimer(initial, delay, clock.afterFunc), clock
}

func TestInitialValueIsSettledImmediately(t *testing.T) {
	d, clock := newFake("start", time.Second)

	assert.Equal(t, "start", d.Value())
	assert.False(t, d.Pending())
	assert.Equal(t, 0, clock.active())
}

func TestRapidChangesSettleOnLastValueOnly(t *testing.T) {
	d, clock := newFake("", time.Second)

	for _, v := range []string{"a", "am", "amy"} {
		d.Set(v)
		clock.Advance(300 * time.Millisecond)
		assert.Equal(t, "", d.Value(), "nothing settles inside the quiet period")
		assert.Equal(t, 1, clock.active(), "at most one pending timer")
	}

	// last change happened 300ms ago; 699ms more is still early
	clock.Advance(699 * time.Millisecond)
	assert.Equal(t, "", d.Value())

	clock.Advance(time.Millisecond)
	assert.Equal(t, "amy", d.Value())
	assert.False(t, d.Pending())

	select {
	case v := <-d.Settled():
		assert.Equal(t, "amy", v)
	default:
		t.Fatal("settled value was not delivered")
	}
	select {
	case v := <-d.Settled():
		t.Fatalf("unexpected extra delivery %q", v)
	default:
	}
}

func TestSupersededTimerCannotOverwrite(t *testing.T) {
	d, clock := newFake(0, time.Second)

	d.Set(1)
	stale := clock.timers[0]
	d.Set(2)

	// simulate a timer that was already firing when it got superseded
	stale.f()
	assert.Equal(t, 0, d.Value())

	clock.Advance(time.Second)
	assert.Equal(t, 2, d.Value())
}

func TestCloseCancelsPendingTimer(t *testing.T) {
	d, clock := newFake("x", time.Second)

	d.Set("y")
	pending := clock.timers[0]
	d.Close()

	assert.True(t, pending.stopped)
	pending.f()
	assert.Equal(t, "x", d.Value())

	_, open := <-d.Settled()
	assert.False(t, open, "Close closes the notification channel")

	require.NotPanics(t, func() {
		d.Set("z")
		d.Close()
	})
	assert.Equal(t, 1, len(clock.timers), "Set after Close arms nothing")
}

func TestSetDelayRearmsPendingChange(t *testing.T) {
	d, clock := newFake("", time.Second)

	d.Set("bob")
	clock.Advance(500 * time.Millisecond)
	d.SetDelay(200 * time.Millisecond)
	assert.Equal(t, 1, clock.active())

	clock.Advance(199 * time.Millisecond)
	assert.Equal(t, "", d.Value())
	clock.Advance(time.Millisecond)
	assert.Equal(t, "bob", d.Value())
	assert.Equal(t, 200*time.Millisecond, d.Delay())
}

func TestSetDelayWithoutPendingChangeArmsNothing(t *testing.T) {
	d, clock := newFake("", time.Second)

	d.SetDelay(10 * time.Millisecond)
	assert.Equal(t, 0, clock.active())
}

func TestNonPositiveDelaySettlesWithoutWaiting(t *testing.T) {
	d, clock := newFake("", -5*time.Second)
	assert.Equal(t, time.Duration(0), d.Delay())

	d.Set("now")
	clock.Advance(0)
	assert.Equal(t, "now", d.Value())
}

func TestNotificationKeepsLatestUnread(t *testing.T) {
	d, clock := newFake("", 10*time.Millisecond)

	d.Set("first")
	clock.Advance(10 * time.Millisecond)
	d.Set("second")
	clock.Advance(10 * time.Millisecond)

	assert.Equal(t, "second", <-d.Settled())
}

func TestRealTimerSettles(t *testing.T) {
	d := New("", 20*time.Millisecond)
	defer d.Close()

	d.Set("a")
	d.Set("ab")

	select {
	case v := <-d.Settled():
		assert.Equal(t, "ab", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never settled")
	}
	assert.Equal(t, "ab", d.Value())
}

func TestZeroDelayRealTimerSettles(t *testing.T) {
	d := New(0, 0)
	defer d.Close()

	d.Set(42)
	require.Eventually(t, func() bool { return d.Value() == 42 }, time.Second, time.Millisecond)
}

func TestNewDefaultUsesDefaultDelay(t *testing.T) {
	d := NewDefault("")
	defer d.Close()

	assert.Equal(t, DefaultDelay, d.Delay())
}
