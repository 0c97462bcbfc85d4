package catalog

import (
	"fmt"
	"sync"
	"time"
)

// State is the catalog status shown to users.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
	// StateLocal means the gallery runs on persisted local edits.
	StateLocal
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	case StateLocal:
		return "local"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time view of the status label.
type Snapshot struct {
	State     string    `json:"state"`
	Count     int       `json:"count"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status is the observable status indicator updated around fetches.
type Status struct {
	mu        sync.RWMutex
	state     State
	count     int
	updatedAt time.Time
}

// NewStatus creates an idle status
func NewStatus() *Status {
	return &Status{updatedAt: time.Now()}
}

// Set moves the indicator to state; count is only meaningful for StateLoaded.
func (s *Status) Set(state State, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.count = count
	s.updatedAt = time.Now()
}

// State returns the current state
func (s *Status) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the current state with its label
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:     s.state.String(),
		Count:     s.count,
		Label:     label(s.state, s.count),
		UpdatedAt: s.updatedAt,
	}
}

func label(state State, count int) string {
	switch state {
	case StateLoading:
		return "API: loading..."
	case StateLoaded:
		return fmt.Sprintf("API: loaded (%d)", count)
	case StateError:
		return "API: error"
	case StateLocal:
		return "Using local edits"
	default:
		return "API: idle"
	}
}
