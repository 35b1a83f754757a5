// Package state holds the client-side contact collection and the reducer
// that drives it.
package state

import (
	"slices"
	"strings"

	"github.com/dtroode/contactkeeper/pkg/api"
)

// State is the client view of a user's contacts.
type State struct {
	Contacts []api.Contact
	// Current is the contact selected for editing, nil when none is.
	Current *api.Contact
	// Filtered is nil when no filter is active. An empty non-nil slice
	// means the filter matched nothing.
	Filtered []api.Contact
}

// Visible returns the contacts the user should see: the filter result when
// a filter is active, all contacts otherwise.
func (s State) Visible() []api.Contact {
	if s.Filtered != nil {
		return s.Filtered
	}
	return s.Contacts
}

// Action is a state transition understood by Reduce.
type Action interface {
	action()
}

type (
	// AddContact appends a contact that already carries a fresh id.
	AddContact struct{ Contact api.Contact }

	// UpdateContact replaces the contact with the same id in place.
	UpdateContact struct{ Contact api.Contact }

	// DeleteContact removes the contact with the given id, if any.
	DeleteContact struct{ ID string }

	SetCurrent struct{ Contact api.Contact }

	ClearCurrent struct{}

	// FilterContacts keeps contacts whose name or type contains Text,
	// ignoring case.
	FilterContacts struct{ Text string }

	ClearFilter struct{}

	// LoadContacts replaces the collection with contacts fetched from the
	// server.
	LoadContacts struct{ Contacts []api.Contact }

	ClearContacts struct{}
)

func (AddContact) action() {}
func (UpdateContact) action() {}
func (DeleteContact) action() {}
func (SetCurrent) action() {}
func (ClearCurrent) action() {}
func (FilterContacts) action() {}
func (ClearFilter) action() {}
func (LoadContacts) action() {}
func (ClearContacts) action() {}

// Reduce returns the state that results from applying a to s. It never
// modifies s; unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddContact:
		s.Contacts = append(slices.Clip(s.Contacts), a.Contact)
	case UpdateContact:
		contacts := slices.Clone(s.Contacts)
		for i := range contacts {
			if contacts[i].ID == a.Contact.ID {
				contacts[i] = a.Contact
			}
		}
		s.Contacts = contacts
	case DeleteContact:
		if slices.ContainsFunc(s.Contacts, func(c api.Contact) bool { return c.ID == a.ID }) {
			s.Contacts = slices.DeleteFunc(slices.Clone(s.Contacts), func(c api.Contact) bool {
				return c.ID == a.ID
			})
		}
	case SetCurrent:
		c := a.Contact
		s.Current = &c
	case ClearCurrent:
		s.Current = nil
	case FilterContacts:
		if a.Text == "" {
			s.Filtered = nil
			break
		}
		s.Filtered = filter(s.Contacts, a.Text)
	case ClearFilter:
		s.Filtered = nil
	case LoadContacts:
		s.Contacts = slices.Clone(a.Contacts)
	case ClearContacts:
		s = State{}
	}
	return s
}

func filter(contacts []api.Contact, text string) []api.Contact {
	needle := strings.ToLower(text)
	out := make([]api.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Type), needle) {
			out = append(out, c)
		}
	}
	return out
}
