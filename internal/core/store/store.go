package store

import (
	"slices"
	"sync"
)

// Listener is called after every recognized action with the resulting state.
// Listeners run outside the store lock, so concurrent dispatches may deliver
// states out of order; consumers that need ordering must compare
// State.Version and drop stale snapshots.
type Listener func(a Action, s *State)

// Store serializes dispatches against a single State aggregate.
type Store struct {
	mu        sync.Mutex
	state     *State
	listeners []Listener
}

// New constructs a store seeded with initial.
func New(initial *State) *Store {
	if initial == nil {
		initial = InitialState(false)
	}
	return &Store{state: initial}
}

// State returns the current snapshot. Callers must treat it as read-only.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l for subsequent dispatches.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Dispatch applies a and returns the new snapshot. Listeners run after the
// lock is released, in registration order.
func (s *Store) Dispatch(a Action) *State {
	s.mu.Lock()
	next := Reduce(s.state, a)
	s.state = next
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if !Recognized(a) {
		return next
	}
	for _, l := range listeners {
		l(a, next)
	}
	return next
}
