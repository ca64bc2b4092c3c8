package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps per-session state snapshots in memory. Sessions share the
// process-wide engines but never each other's state; nothing outlives the
// process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]State
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]State)}
}

// Create registers a new session with initial state and returns it.
func (st *Store) Create() State {
	state := NewState(uuid.New().String())
	st.mu.Lock()
	st.sessions[state.ID] = state
	st.mu.Unlock()
	return state
}

func (st *Store) Get(id string) (State, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Commit swaps in a new snapshot for the session.
func (st *Store) Commit(state State) {
	st.mu.Lock()
	st.sessions[state.ID] = state
	st.mu.Unlock()
}
