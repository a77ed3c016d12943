package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/flightscope/internal/domain"
)

// ErrStoreFull is returned by Create once the session cap is reached.
var ErrStoreFull = errors.New("too many browse sessions")

// Store keeps browse sessions in memory. Nothing survives a restart.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session // ID -> Session
	maxSessions int                 // 0 = unbounded
	now         func() time.Time
}

// NewStore creates an empty session store holding at most maxSessions
// sessions. Zero means no cap.
func NewStore(maxSessions int) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Create starts a new session with no results and no filters.
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.maxSessions > 0 && len(st.sessions) >= st.maxSessions {
		return nil, ErrStoreFull
	}
	s := newSession(uuid.NewString(), st.now)
	st.sessions[s.ID] = s
	return s, nil
}

// Get retrieves a session by ID
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Count returns the number of sessions
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}

// CountByStatus returns how many sessions are in each search status.
func (st *Store) CountByStatus() map[domain.SearchStatus]int {
	st.mu.RLock()
	all := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	st.mu.RUnlock()

	counts := make(map[domain.SearchStatus]int, 4)
	for _, s := range all {
		counts[s.Status()]++
	}
	return counts
}

// EvictIdle removes sessions not touched for longer than ttl, except those
// with a search in flight. It returns the evicted IDs.
func (st *Store) EvictIdle(ttl time.Duration) []string {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	var evicted []string
	for id, s := range st.sessions {
		if s.Status() == domain.StatusSearching {
			continue
		}
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
