package session

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
	"github.com/MrSnakeDoc/flightscope/internal/pipeline"
)

// Searcher runs a flight search. Satisfied by *pipeline.Orchestrator.
type Searcher interface {
	Search(ctx context.Context, params domain.SearchParams) ([]domain.Flight, error)
}

// Session is one user's browse state: the last search results, the active
// filters and everything derived from them.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	state    domain.State
	nextSeq  uint64
	params   domain.SearchParams // last search issued
	lastSeen time.Time
	now      func() time.Time
}

func newSession(id string, now func() time.Time) *Session {
	t := now()
	return &Session{
		ID:        id,
		CreatedAt: t,
		state:     domain.NewState(),
		lastSeen:  t,
		now:       now,
	}
}

// Search runs a search and feeds its result into the session. A result
// that arrives after a newer search was started is discarded, but the
// caller still gets the outcome of its own search.
func (s *Session) Search(ctx context.Context, searcher Searcher, params domain.SearchParams) (pipeline.Outcome, error) {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.params = params.Normalize()
	s.state = domain.Reduce(s.state, domain.SearchStarted{Seq: seq})
	s.lastSeen = s.now()
	s.mu.Unlock()

	flights, err := searcher.Search(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = domain.Reduce(s.state, domain.SearchFailed{Seq: seq, Err: err})
	} else {
		s.state = domain.Reduce(s.state, domain.SearchSucceeded{Seq: seq, Flights: flights})
	}
	s.lastSeen = s.now()
	return pipeline.Classify(flights, err), err
}

// SetFilters shallow-merges patch into the active filters.
func (s *Session) SetFilters(patch domain.FilterPatch) domain.State {
	return s.apply(domain.FiltersChanged{Patch: patch})
}

// ResetFilters drops every filter constraint.
func (s *Session) ResetFilters() domain.State {
	return s.apply(domain.FiltersReset{})
}

// Observe returns the current state and moves a finished search back to
// idle, so each outcome is reported once.
func (s *Session) Observe() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.state
	s.state = domain.Reduce(s.state, domain.OutcomeObserved{})
	s.lastSeen = s.now()
	return cur
}

// Snapshot returns the current state without changing it.
func (s *Session) Snapshot() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	return s.state
}

// LastParams returns the parameters of the most recent search.
func (s *Session) LastParams() domain.SearchParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// LastSeen returns the time of the last interaction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Status returns the current search status.
func (s *Session) Status() domain.SearchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Status
}

func (s *Session) apply(a domain.Action) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.Reduce(s.state, a)
	s.lastSeen = s.now()
	return s.state
}
