package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"homeboard/internal/debounce"
	"homeboard/internal/domain"
	"homeboard/internal/eventbus"
)

// ErrUnknownAction is returned for toolbar or overlay actions the controller does not handle
var ErrUnknownAction = errors.New("unknown action")

// ToolbarAction is emitted by the toolbar
type ToolbarAction string

const (
	ActionRoll   ToolbarAction = "roll"
	ActionSort   ToolbarAction = "sort"
	ActionSearch ToolbarAction = "search"
)

// OverlayAction is emitted by the active roll overlay
type OverlayAction string

const (
	ActionExit OverlayAction = "exit"
)

// Phase is what the page body shows
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseList
	PhaseEmpty
	PhaseNoMatches
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseList:
		return "list"
	case PhaseEmpty:
		return "empty"
	case PhaseNoMatches:
		return "no_matches"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StudentSource triggers the roster fetch and exposes its latest result
type StudentSource interface {
	Trigger(ctx context.Context)
	Data() *domain.StudentsPayload
	State() domain.LoadState
}

// Option configures a Controller
type Option func(*Controller)

// WithDebounce sets the search quiet period
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithEventBus publishes roll, sort and search changes on bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

// WithDefaultSort sets the initial sort key. Invalid keys are ignored.
func WithDefaultSort(key domain.SortKey) Option {
	return func(c *Controller) {
		if key.Valid() {
			c.sortKey = key
		}
	}
}

// derivation remembers the inputs of the last DisplayList computation
type derivation struct {
	payload *domain.StudentsPayload
	key     domain.SortKey
	query   string
	list    []domain.Person
	valid   bool
}

// Controller holds the home board's interaction state and derives the list it shows.
// It is not safe for concurrent use; drive it from one event loop.
type Controller struct {
	source StudentSource
	bus    eventbus.EventBus
	delay  time.Duration
	search *debounce.Debouncer[string]

	initialized   bool
	rollMode      bool
	sortKey       domain.SortKey
	rawSearch     string
	settledSearch string

	derived derivation
}

// NewController creates a controller reading from source
func NewController(source StudentSource, opts ...Option) *Controller {
	c := &Controller{
		source:  source,
		delay:   debounce.DefaultDelay,
		sortKey: domain.SortFirstName,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.search = debounce.New("", c.delay)
	return c
}

// Initialize triggers the roster fetch on first activation. Later calls do nothing
// and return false.
func (c *Controller) Initialize(ctx context.Context) bool {
	if c.initialized {
		return false
	}
	c.initialized = true
	c.source.Trigger(ctx)
	return true
}

// Refetch triggers a new fetch regardless of earlier ones
func (c *Controller) Refetch(ctx context.Context) {
	c.initialized = true
	c.source.Trigger(ctx)
}

// HandleToolbarAction applies a toolbar action. value is the sort label for
// ActionSort and the search text for ActionSearch.
func (c *Controller) HandleToolbarAction(action ToolbarAction, value string) error {
	switch action {
	case ActionRoll:
		c.setRollMode(true)
	case ActionSort:
		c.selectSort(value)
	case ActionSearch:
		c.rawSearch = value
		c.search.Set(value)
	default:
		return fmt.Errorf("toolbar %q: %w", action, ErrUnknownAction)
	}
	return nil
}

func (c *Controller) selectSort(value string) {
	if value == "" {
		return
	}
	// the placeholder option must never become the active key
	if value == SortPlaceholder {
		return
	}
	key, ok := ParseSortKey(value)
	if !ok {
		log.Printf("Ignoring unknown sort option %q", value)
		return
	}
	if key == c.sortKey {
		return
	}

	old := c.sortKey
	c.sortKey = key
	c.publish(eventbus.SortChangedEvent{OldKey: old, NewKey: key})
}

// HandleOverlayAction applies an action from the roll overlay
func (c *Controller) HandleOverlayAction(action OverlayAction) error {
	switch action {
	case ActionExit:
		c.setRollMode(false)
	default:
		return fmt.Errorf("overlay %q: %w", action, ErrUnknownAction)
	}
	return nil
}

func (c *Controller) setRollMode(active bool) {
	if c.rollMode == active {
		return
	}
	c.rollMode = active
	c.publish(eventbus.RollModeChangedEvent{Active: active})
}

// Settled delivers search text once it has been stable for the quiet period.
// Pass each value to ApplySettledSearch from the event loop.
func (c *Controller) Settled() <-chan string {
	return c.search.Settled()
}

// ApplySettledSearch makes q the search text the display list is filtered by
func (c *Controller) ApplySettledSearch(q string) {
	if q == c.settledSearch {
		return
	}
	c.settledSearch = q
	c.publish(eventbus.SearchSettledEvent{Query: q})
}

// DisplayList returns the sorted and filtered students. The result is cached until
// the fetched payload, the sort key or the settled search text change; callers
// must not modify it.
func (c *Controller) DisplayList() []domain.Person {
	payload := c.source.Data()
	d := &c.derived
	if d.valid && d.payload == payload && d.key == c.sortKey && d.query == c.settledSearch {
		return d.list
	}

	var students []domain.Person
	if payload != nil {
		students = payload.Students
	}
	*d = derivation{
		payload: payload,
		key:     c.sortKey,
		query:   c.settledSearch,
		list:    Derive(students, c.sortKey, c.settledSearch),
		valid:   true,
	}
	return d.list
}

// Phase decides what the page body renders for the current load state
func (c *Controller) Phase() Phase {
	switch c.source.State() {
	case domain.LoadLoading:
		return PhaseLoading
	case domain.LoadError:
		return PhaseFailed
	case domain.LoadLoaded:
		if len(c.DisplayList()) > 0 {
			return PhaseList
		}
		if payload := c.source.Data(); payload == nil || len(payload.Students) == 0 {
			return PhaseEmpty
		}
		return PhaseNoMatches
	default:
		return PhaseIdle
	}
}

// TotalStudents returns the size of the fetched roster before filtering
func (c *Controller) TotalStudents() int {
	if payload := c.source.Data(); payload != nil {
		return len(payload.Students)
	}
	return 0
}

// RollMode reports whether an active roll is in progress
func (c *Controller) RollMode() bool { return c.rollMode }

// SortKey returns the active sort key
func (c *Controller) SortKey() domain.SortKey { return c.sortKey }

// RawSearch returns the search text as typed
func (c *Controller) RawSearch() string { return c.rawSearch }

// SettledSearch returns the search text the list is filtered by
func (c *Controller) SettledSearch() string { return c.settledSearch }

// SearchPending reports whether typed text has not settled yet
func (c *Controller) SearchPending() bool { return c.search.Pending() }

// LoadState returns the fetch state of the source
func (c *Controller) LoadState() domain.LoadState { return c.source.State() }

// LoadErr returns the last fetch error when the source keeps one
func (c *Controller) LoadErr() error {
	if s, ok := c.source.(interface{ Err() error }); ok {
		return s.Err()
	}
	return nil
}

// Close stops the search debouncer
func (c *Controller) Close() {
	c.search.Close()
}

func (c *Controller) publish(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
