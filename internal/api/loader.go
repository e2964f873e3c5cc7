package api

import (
	"context"
	"fmt"
	"log"
	"sync"

	"homeboard/internal/domain"
	"homeboard/internal/eventbus"
)

// Loader runs a Fetcher and keeps the latest result together with its load state.
// It is the roster's fetch collaborator.
type Loader struct {
	fetcher Fetcher
	bus     eventbus.EventBus

	mu    sync.RWMutex
	gen   uint64
	state domain.LoadState
	data  *domain.StudentsPayload
	err   error
	wg    sync.WaitGroup
}

// NewLoader creates a loader. bus may be nil.
func NewLoader(fetcher Fetcher, bus eventbus.EventBus) *Loader {
	return &Loader{
		fetcher: fetcher,
		bus:     bus,
		state:   domain.LoadNotStarted,
	}
}

// Trigger starts a fetch in the background. A newer Trigger supersedes the
// result of one still in flight. The last good payload stays available while
// loading and after an error.
func (l *Loader) Trigger(ctx context.Context) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state = domain.LoadLoading
	l.err = nil
	l.mu.Unlock()

	l.publish(eventbus.RosterFetchRequestedEvent{Source: fmt.Sprint(l.fetcher)})

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		payload, err := l.fetcher.FetchStudents(ctx)
		l.complete(gen, payload, err)
	}()
}

func (l *Loader) complete(gen uint64, payload *domain.StudentsPayload, err error) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		log.Printf("Discarding superseded roster fetch %d", gen)
		return
	}
	if err != nil {
		l.state = domain.LoadError
		l.err = err
	} else {
		l.state = domain.LoadLoaded
		l.data = payload
	}
	l.mu.Unlock()

	if err != nil {
		log.Printf("Roster fetch failed: %v", err)
		l.publish(eventbus.RosterLoadFailedEvent{Err: err})
		return
	}
	count := 0
	if payload != nil {
		count = len(payload.Students)
	}
	log.Printf("Roster loaded: %d students", count)
	l.publish(eventbus.RosterLoadedEvent{Count: count})
}

// Data returns the most recent successfully decoded payload, or nil
func (l *Loader) Data() *domain.StudentsPayload {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data
}

// State returns the current load state
func (l *Loader) State() domain.LoadState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Err returns the error of the last fetch, if it failed
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Wait blocks until every triggered fetch has returned
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) publish(event eventbus.DomainEvent) {
	if l.bus != nil {
		l.bus.Publish(event)
	}
}
