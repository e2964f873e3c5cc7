package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeboard/internal/domain"
	"homeboard/internal/eventbus"
)

// stubSource is a StudentSource with a settable result.
type stubSource struct {
	triggers int
	data     *domain.StudentsPayload
	state    domain.LoadState
}

func (s *stubSource) Trigger(context.Context) {
	s.triggers++
	s.state = domain.LoadLoading
}

func (s *stubSource) Data() *domain.StudentsPayload { return s.data }
func (s *stubSource) State() domain.LoadState       { return s.state }

func (s *stubSource) load(students ...domain.Person) {
	s.data = &domain.StudentsPayload{Students: students}
	s.state = domain.LoadLoaded
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *stubSource) {
	t.Helper()
	src := &stubSource{state: domain.LoadNotStarted}
	c := NewController(src, append([]Option{WithDebounce(10 * time.Millisecond)}, opts...)...)
	t.Cleanup(c.Close)
	return c, src
}

func waitSettled(t *testing.T, c *Controller) string {
	t.Helper()
	select {
	case q := <-c.Settled():
		return q
	case <-time.After(2 * time.Second):
		t.Fatal("search never settled")
		return ""
	}
}

func TestInitializeTriggersOnce(t *testing.T) {
	c, src := newTestController(t)

	assert.True(t, c.Initialize(context.Background()))
	assert.False(t, c.Initialize(context.Background()))
	assert.False(t, c.Initialize(context.Background()))
	assert.Equal(t, 1, src.triggers)

	c.Refetch(context.Background())
	assert.Equal(t, 2, src.triggers)
}

func TestDefaults(t *testing.T) {
	c, _ := newTestController(t)

	assert.Equal(t, domain.SortFirstName, c.SortKey())
	assert.False(t, c.RollMode())
	assert.Equal(t, "", c.RawSearch())
	assert.Equal(t, "", c.SettledSearch())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestWithDefaultSortIgnoresInvalidKey(t *testing.T) {
	c, _ := newTestController(t, WithDefaultSort(domain.SortLastName))
	assert.Equal(t, domain.SortLastName, c.SortKey())

	c2, _ := newTestController(t, WithDefaultSort("age"))
	assert.Equal(t, domain.SortFirstName, c2.SortKey())
}

func TestRollThenExit(t *testing.T) {
	c, _ := newTestController(t)

	require.NoError(t, c.HandleToolbarAction(ActionRoll, ""))
	assert.True(t, c.RollMode())

	require.NoError(t, c.HandleOverlayAction(ActionExit))
	assert.False(t, c.RollMode())
}

func TestSortSelection(t *testing.T) {
	c, _ := newTestController(t)

	require.NoError(t, c.HandleToolbarAction(ActionSort, "Last Name"))
	assert.Equal(t, domain.SortLastName, c.SortKey())

	require.NoError(t, c.HandleToolbarAction(ActionSort, SortPlaceholder))
	assert.Equal(t, domain.SortLastName, c.SortKey(), "placeholder leaves the key unchanged")

	require.NoError(t, c.HandleToolbarAction(ActionSort, ""))
	require.NoError(t, c.HandleToolbarAction(ActionSort, "Shoe Size"))
	assert.Equal(t, domain.SortLastName, c.SortKey())

	require.NoError(t, c.HandleToolbarAction(ActionSort, "First Name"))
	assert.Equal(t, domain.SortFirstName, c.SortKey())
}

func TestUnknownActions(t *testing.T) {
	c, _ := newTestController(t)

	err := c.HandleToolbarAction("dance", "")
	assert.True(t, errors.Is(err, ErrUnknownAction))

	err = c.HandleOverlayAction("complete")
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestDisplayListFollowsSettledSearchOnly(t *testing.T) {
	c, src := newTestController(t)
	src.load(bobAndAmy...)

	require.NoError(t, c.HandleToolbarAction(ActionSearch, "z"))
	assert.Equal(t, "z", c.RawSearch())
	assert.Equal(t, []int{2, 1}, ids(c.DisplayList()), "raw text does not filter")

	c.ApplySettledSearch(waitSettled(t, c))
	assert.Equal(t, "z", c.SettledSearch())
	assert.Equal(t, []int{1}, ids(c.DisplayList()))

	require.NoError(t, c.HandleToolbarAction(ActionSearch, ""))
	c.ApplySettledSearch(waitSettled(t, c))
	assert.Equal(t, []int{2, 1}, ids(c.DisplayList()), "empty search shows everyone")
}

func TestRapidSearchSettlesOnLastValue(t *testing.T) {
	c, _ := newTestController(t, WithDebounce(50*time.Millisecond))

	for _, v := range []string{"a", "am", "amy"} {
		require.NoError(t, c.HandleToolbarAction(ActionSearch, v))
	}
	assert.True(t, c.SearchPending())
	assert.Equal(t, "amy", waitSettled(t, c))
}

func TestDisplayListIsCachedUntilInputsChange(t *testing.T) {
	c, src := newTestController(t)
	src.load(bobAndAmy...)

	first := c.DisplayList()
	second := c.DisplayList()
	require.Len(t, first, 2)
	assert.Same(t, &first[0], &second[0], "unchanged inputs reuse the derived list")

	require.NoError(t, c.HandleToolbarAction(ActionSort, "Last Name"))
	third := c.DisplayList()
	assert.Equal(t, []int{2, 1}, ids(third))

	src.load(domain.Person{ID: 9, FirstName: "Cy", LastName: "Ace"})
	assert.Equal(t, []int{9}, ids(c.DisplayList()), "a new payload is derived again")
}

func TestPhases(t *testing.T) {
	c, src := newTestController(t)
	assert.Equal(t, PhaseIdle, c.Phase())

	c.Initialize(context.Background())
	assert.Equal(t, PhaseLoading, c.Phase())

	src.load()
	assert.Equal(t, PhaseEmpty, c.Phase())

	src.load(bobAndAmy...)
	assert.Equal(t, PhaseList, c.Phase())

	c.ApplySettledSearch("nobody")
	assert.Equal(t, PhaseNoMatches, c.Phase())

	src.state = domain.LoadError
	assert.Equal(t, PhaseFailed, c.Phase())
	assert.Equal(t, "failed", c.Phase().String())
}

func TestPublishesChanges(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan eventbus.DomainEvent, 8)
	for _, et := range []eventbus.EventType{
		eventbus.EventRollModeChanged,
		eventbus.EventSortChanged,
		eventbus.EventSearchSettled,
	} {
		bus.Subscribe(et, func(e eventbus.DomainEvent) { got <- e })
	}

	c, _ := newTestController(t, WithEventBus(bus))
	require.NoError(t, c.HandleToolbarAction(ActionRoll, ""))
	require.NoError(t, c.HandleToolbarAction(ActionSort, "Last Name"))
	c.ApplySettledSearch("amy")

	seen := map[eventbus.EventType]eventbus.DomainEvent{}
	for len(seen) < 3 {
		select {
		case e := <-got:
			seen[e.Type()] = e
		case <-time.After(2 * time.Second):
			t.Fatalf("only saw %d events", len(seen))
		}
	}
	assert.Equal(t, eventbus.RollModeChangedEvent{Active: true}, seen[eventbus.EventRollModeChanged])
	assert.Equal(t, eventbus.SortChangedEvent{OldKey: domain.SortFirstName, NewKey: domain.SortLastName},
		seen[eventbus.EventSortChanged])
	assert.Equal(t, eventbus.SearchSettledEvent{Query: "amy"}, seen[eventbus.EventSearchSettled])
}

type erringSource struct {
	stubSource
	err error
}

func (s *erringSource) Err() error { return s.err }

func TestLoadErrAndTotal(t *testing.T) {
	c, src := newTestController(t)
	assert.NoError(t, c.LoadErr())
	assert.Equal(t, 0, c.TotalStudents())

	src.load(domain.Person{ID: 1, FirstName: "Bob"}, domain.Person{ID: 2, FirstName: "Amy"})
	c.ApplySettledSearch("bob")
	assert.Equal(t, 2, c.TotalStudents())
	assert.Len(t, c.DisplayList(), 1)

	failing := &erringSource{err: errors.New("boom")}
	failing.state = domain.LoadError
	fc := NewController(failing)
	t.Cleanup(fc.Close)
	assert.EqualError(t, fc.LoadErr(), "boom")
	assert.Equal(t, PhaseFailed, fc.Phase())
}
