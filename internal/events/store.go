package events

import "sync"

// Store holds the listing shared by all viewers. Every replacement bumps the
// generation so cached views can tell their input went stale.
type Store struct {
	mu         sync.RWMutex
	events     []Event
	generation uint64
}

func NewStore(events []Event) *Store {
	return &Store{events: events, generation: 1}
}

// Snapshot returns the current events and their generation. Callers must not
// modify the returned slice.
func (s *Store) Snapshot() ([]Event, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events, s.generation
}

func (s *Store) Replace(events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.generation++
}
