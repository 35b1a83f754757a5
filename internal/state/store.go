package state

import (
	"sync"

	"github.com/dtroode/contactkeeper/pkg/api"
)

// Store owns a State and applies actions to it through Reduce.
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewStore creates a Store starting at initial.
func NewStore(initial State) *Store {
	return &Store{
		state:       initial,
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and notifies subscribers with the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to be called after every dispatch. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Seeded returns the initial state used when running without a server.
func Seeded() State {
	return State{
		Contacts: []api.Contact{
			{
				ID:    "1",
				Name:  "Jill Johnson",
				Email: "jill@gmail.com",
				Phone: "111-111-1111",
				Type:  api.ContactTypePersonal,
			},
			{
				ID:    "2",
				Name:  "Ryan Dulac",
				Email: "dulac@gmail.com",
				Phone: "757-666-2345",
				Type:  api.ContactTypePersonal,
			},
			{
				ID:    "3",
				Name:  "Ben Johnson",
				Email: "ben@gmail.com",
				Phone: "111-111-1111",
				Type:  api.ContactTypeProfessional,
			},
		},
	}
}
