// Package mockapi serves a stand-in attendance API for local development.
package mockapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"homeboard/internal/domain"
)

// API holds the roster the mock server answers with
type API struct {
	students []domain.Person
	latency  time.Duration
	failing  atomic.Bool
	logger   *log.Logger
}

// Option configures an API
type Option func(*API)

// WithLatency delays every response by d
func WithLatency(d time.Duration) Option {
	return func(a *API) {
		a.latency = d
	}
}

// WithFailure makes the students endpoint answer 500
func WithFailure(fail bool) Option {
	return func(a *API) {
		a.failing.Store(fail)
	}
}

// WithLogger logs each request to logger
func WithLogger(logger *log.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// New creates a mock API serving students
func New(students []domain.Person, opts ...Option) *API {
	a := &API{students: students}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetFailing switches forced failures on or off
func (a *API) SetFailing(fail bool) {
	a.failing.Store(fail)
}

// RegisterRoutes attaches the API endpoints to the router
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/get-homeboard-students", a.handleGetStudents)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Router returns a chi router with the API registered. Handler panics answer 500.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	a.RegisterRoutes(r)
	return r
}

func (a *API) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	if a.latency > 0 {
		select {
		case <-time.After(a.latency):
		case <-r.Context().Done():
			return
		}
	}

	if a.failing.Load() {
		a.logf("GET %s -> 500 (forced)", r.URL.Path)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	a.logf("GET %s -> 200 (%d students)", r.URL.Path, len(a.students))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(domain.StudentsPayload{Students: a.students})
}

func (a *API) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
