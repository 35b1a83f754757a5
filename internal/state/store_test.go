package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/contactkeeper/pkg/api"
)

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	store := NewStore(Seeded())

	var seen []State
	unsubscribe := store.Subscribe(func(s State) {
		seen = append(seen, s)
	})

	store.Dispatch(AddContact{Contact: api.Contact{ID: "4", Name: "New"}})
	store.Dispatch(FilterContacts{Text: "new"})

	require.Len(t, seen, 2)
	assert.Len(t, seen[0].Contacts, 4)
	assert.Len(t, seen[1].Filtered, 1)
	assert.Equal(t, seen[1], store.State())

	unsubscribe()
	store.Dispatch(ClearFilter{})
	assert.Len(t, seen, 2)
	assert.Nil(t, store.State().Filtered)
}

func TestStore_SubscriberSeesCommittedState(t *testing.T) {
	store := NewStore(State{})

	store.Subscribe(func(s State) {
		// Reading the store from a subscriber must not deadlock.
		assert.Equal(t, s, store.State())
	})

	store.Dispatch(AddContact{Contact: api.Contact{ID: "1", Name: "One"}})
}

func TestSeeded(t *testing.T) {
	s := Seeded()

	require.Len(t, s.Contacts, 3)
	assert.Equal(t, "Jill Johnson", s.Contacts[0].Name)
	assert.Nil(t, s.Current)
	assert.Nil(t, s.Filtered)
}
