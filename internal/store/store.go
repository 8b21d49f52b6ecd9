// Package store holds the client-visible state containers: plain reducer
// stores whose transition functions are pure and whose asynchronous inputs
// arrive pre-resolved from the service layer. There are exactly two
// containers, auth and posts, and both are injected explicitly rather than
// reached through package globals.
package store

import "sync"

// Listener is notified with the new state after every dispatch.
type Listener[S any] func(S)

// Store applies a pure reducer to (state, action) pairs and notifies
// subscribers. The reducer must not mutate its input state; actions carry
// finished results only, never pending work.
type Store[S, A any] struct {
	mu      sync.RWMutex
	state   S
	reducer func(S, A) S

	subMu  sync.Mutex
	subs   map[int]Listener[S]
	nextID int
}

// New creates a store with the given initial state and reducer.
func New[S, A any](initial S, reducer func(S, A) S) *Store[S, A] {
	return &Store[S, A]{
		state:   initial,
		reducer: reducer,
		subs:    make(map[int]Listener[S]),
	}
}

// State returns the current state snapshot.
func (s *Store[S, A]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies the action and notifies subscribers with the new state.
// Listeners run on the dispatching goroutine, outside the state lock.
func (s *Store[S, A]) Dispatch(action A) {
	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	next := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	listeners := make([]Listener[S], 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store[S, A]) Subscribe(fn Listener[S]) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}
