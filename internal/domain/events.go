package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventRosterFetchRequested EventType = "RosterFetchRequested"
	EventRosterLoaded         EventType = "RosterLoaded"
	EventRosterLoadFailed     EventType = "RosterLoadFailed"
	EventRollModeChanged      EventType = "RollModeChanged"
	EventSortChanged          EventType = "SortChanged"
	EventSearchSettled        EventType = "SearchSettled"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// RosterFetchRequestedEvent is emitted when a fetch of the roster starts
type RosterFetchRequestedEvent struct {
	Source string
}

func (e RosterFetchRequestedEvent) Type() EventType { return EventRosterFetchRequested }

// RosterLoadedEvent is emitted when the roster was fetched and decoded
type RosterLoadedEvent struct {
	Count int
}

func (e RosterLoadedEvent) Type() EventType { return EventRosterLoaded }

// RosterLoadFailedEvent is emitted when a fetch fails
type RosterLoadFailedEvent struct {
	Err error
}

func (e RosterLoadFailedEvent) Type() EventType { return EventRosterLoadFailed }

// RollModeChangedEvent is emitted when an active roll starts or ends
type RollModeChangedEvent struct {
	Active bool
}

func (e RollModeChangedEvent) Type() EventType { return EventRollModeChanged }

// SortChangedEvent is emitted when the active sort key changes
type SortChangedEvent struct {
	OldKey SortKey
	NewKey SortKey
}

func (e SortChangedEvent) Type() EventType { return EventSortChanged }

// SearchSettledEvent is emitted when the debounced search text is applied
type SearchSettledEvent struct {
	Query string
}

func (e SearchSettledEvent) Type() EventType { return EventSearchSettled }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
