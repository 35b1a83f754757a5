package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/state"
	"github.com/dtroode/contactkeeper/pkg/api"
)

// Backend persists contacts. *Client satisfies it.
type Backend interface {
	ListContacts(ctx context.Context) ([]api.Contact, error)
	CreateContact(ctx context.Context, in api.ContactInput) (api.Contact, error)
	UpdateContact(ctx context.Context, id string, in api.ContactInput) (api.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

var _ Backend = (*Client)(nil)

var (
	errNameRequired = errors.New("name is required")
	errInvalidType  = errors.New("type must be personal or professional")
)

// Keeper applies contact operations to a state.Store. With a Backend every
// mutation is sent to the server first and the store is updated from the
// server's answer; without one the store is the only copy.
type Keeper struct {
	store   *state.Store
	backend Backend
	logger  *logger.Logger
}

// NewKeeper creates a Keeper over store. backend may be nil.
func NewKeeper(store *state.Store, backend Backend, logger *logger.Logger) *Keeper {
	return &Keeper{store: store, backend: backend, logger: logger}
}

// State returns the current client state.
func (k *Keeper) State() state.State {
	return k.store.State()
}

// Load replaces the local contacts with the server's. It is a no-op
// without a backend.
func (k *Keeper) Load(ctx context.Context) error {
	if k.backend == nil {
		return nil
	}

	contacts, err := k.backend.ListContacts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	k.store.Dispatch(state.LoadContacts{Contacts: contacts})
	k.logger.Debug("Keeper: contacts loaded", "count", len(contacts))
	return nil
}

// Add creates a contact. Without a backend it gets a fresh random id and
// the personal type when none is given.
func (k *Keeper) Add(ctx context.Context, in api.ContactInput) (api.Contact, error) {
	var contact api.Contact
	if k.backend != nil {
		created, err := k.backend.CreateContact(ctx, in)
		if err != nil {
			return api.Contact{}, fmt.Errorf("failed to add contact: %w", err)
		}
		contact = created
	} else {
		contact = api.Contact{ID: uuid.NewString(), Type: api.ContactTypePersonal}
		applyInput(&contact, in)
		if contact.Type == "" {
			contact.Type = api.ContactTypePersonal
		}
		if err := validateContact(contact); err != nil {
			return api.Contact{}, fmt.Errorf("failed to add contact: %w", err)
		}
	}

	k.store.Dispatch(state.AddContact{Contact: contact})
	return contact, nil
}

// Update changes the contact with the given id and clears the current
// selection.
func (k *Keeper) Update(ctx context.Context, id string, in api.ContactInput) (api.Contact, error) {
	var contact api.Contact
	if k.backend != nil {
		updated, err := k.backend.UpdateContact(ctx, id, in)
		if err != nil {
			return api.Contact{}, fmt.Errorf("failed to update contact: %w", err)
		}
		contact = updated
	} else {
		existing, ok := k.find(id)
		if !ok {
			return api.Contact{}, fmt.Errorf("failed to update contact: contact %s not found", id)
		}
		contact = existing
		applyInput(&contact, in)
		if err := validateContact(contact); err != nil {
			return api.Contact{}, fmt.Errorf("failed to update contact: %w", err)
		}
	}

	k.store.Dispatch(state.UpdateContact{Contact: contact})
	k.store.Dispatch(state.ClearCurrent{})
	return contact, nil
}

// Delete removes the contact with the given id. Deleting an id that is not
// present locally is not an error without a backend.
func (k *Keeper) Delete(ctx context.Context, id string) error {
	if k.backend != nil {
		if err := k.backend.DeleteContact(ctx, id); err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}
	}

	k.store.Dispatch(state.DeleteContact{ID: id})
	if cur := k.store.State().Current; cur != nil && cur.ID == id {
		k.store.Dispatch(state.ClearCurrent{})
	}
	return nil
}

// SetCurrent selects the contact with the given id for editing.
func (k *Keeper) SetCurrent(id string) error {
	contact, ok := k.find(id)
	if !ok {
		return fmt.Errorf("contact %s not found", id)
	}
	k.store.Dispatch(state.SetCurrent{Contact: contact})
	return nil
}

func (k *Keeper) ClearCurrent() {
	k.store.Dispatch(state.ClearCurrent{})
}

// Filter shows only contacts whose name or type contains text.
func (k *Keeper) Filter(text string) []api.Contact {
	return k.store.Dispatch(state.FilterContacts{Text: text}).Visible()
}

func (k *Keeper) ClearFilter() {
	k.store.Dispatch(state.ClearFilter{})
}

// Reset drops every local contact, as on logout.
func (k *Keeper) Reset() {
	k.store.Dispatch(state.ClearContacts{})
}

func (k *Keeper) find(id string) (api.Contact, bool) {
	for _, c := range k.store.State().Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return api.Contact{}, false
}

func applyInput(c *api.Contact, in api.ContactInput) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Type != nil {
		c.Type = *in.Type
	}
}

// validateContact applies the server's contact rules to pure-client
// changes.
func validateContact(c api.Contact) error {
	if c.Name == "" {
		return errNameRequired
	}
	if c.Type != api.ContactTypePersonal && c.Type != api.ContactTypeProfessional {
		return errInvalidType
	}
	return nil
}
