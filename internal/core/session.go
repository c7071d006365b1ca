package core

import (
	"sync"
	"time"
)

// SessionPhase is where a session is in its lifecycle.
type SessionPhase string

const (
	PhaseEmpty           SessionPhase = "empty"
	PhaseLoaded          SessionPhase = "loaded"
	PhaseCleaningApplied SessionPhase = "cleaning_applied"
)

// State is the single table slot owned by one session. It is seeded once and
// afterwards only changes through Replace.
type State struct {
	id string

	mu        sync.RWMutex
	table     *Table
	phase     SessionPhase
	version   int
	loadedAt  time.Time
	updatedAt time.Time
}

// NewState returns an empty slot for the session id.
func NewState(id string) *State {
	return &State{id: id, phase: PhaseEmpty}
}

// ID returns the session id the state was created with.
func (s *State) ID() string { return s.id }

// Initialize seeds the slot with t. Only the first call has an effect; later
// calls return false and keep whatever cleaning has been applied since.
func (s *State) Initialize(t *Table) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table != nil {
		return false
	}
	now := time.Now()
	s.table = t
	s.phase = PhaseLoaded
	s.version = 1
	s.loadedAt = now
	s.updatedAt = now
	return true
}

// Get returns the held table, or nil before Initialize.
func (s *State) Get() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Replace swaps in the result of a cleaning operation computed elsewhere.
// Workspace operations commit through update, which computes the result from
// the held table and replaces it under the same lock.
func (s *State) Replace(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(t)
}

func (s *State) replaceLocked(t *Table) {
	s.table = t
	s.phase = PhaseCleaningApplied
	s.version++
	s.updatedAt = time.Now()
}

// StateInfo is a snapshot of the slot's bookkeeping.
type StateInfo struct {
	ID        string       `json:"id"`
	Phase     SessionPhase `json:"phase"`
	Version   int          `json:"version"`
	LoadedAt  time.Time    `json:"loadedAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Info returns the current bookkeeping.
func (s *State) Info() StateInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StateInfo{
		ID:        s.id,
		Phase:     s.phase,
		Version:   s.version,
		LoadedAt:  s.loadedAt,
		UpdatedAt: s.updatedAt,
	}
}

// update is the read-modify-write form of Replace: it applies fn to the held
// table and commits the result in one critical section, so two overlapping
// requests cannot both start from the same table.
func (s *State) update(fn func(*Table) (*Table, error)) (before, after *Table, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, nil, ErrNoDataset
	}
	before = s.table
	after, err = fn(before)
	if err != nil {
		return before, nil, err
	}
	s.replaceLocked(after)
	return before, after, nil
}
