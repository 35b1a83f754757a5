package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactStore defines persistence operations for contacts.
type ContactStore interface {
	Create(ctx context.Context, contact Contact) (Contact, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Contact, error)
	// Modify locks the contact with the given id, passes it to fn and
	// persists what fn returns. Nothing is written when fn fails.
	Modify(ctx context.Context, id uuid.UUID, fn func(current Contact) (Contact, error)) (Contact, error)
	// DeleteIf locks the contact with the given id and deletes it if check
	// returns nil.
	DeleteIf(ctx context.Context, id uuid.UUID, check func(current Contact) error) error
}

// Contact represents a stored contact owned by one user.
type Contact struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	Phone     string
	Type      ContactType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactType enumerates contact kinds.
type ContactType string

const (
	// ContactTypePersonal is the default contact type.
	ContactTypePersonal ContactType = "personal"
	// ContactTypeProfessional marks work contacts.
	ContactTypeProfessional ContactType = "professional"
)

// Valid reports whether t is one of the known contact types.
func (t ContactType) Valid() bool {
	switch t {
	case ContactTypePersonal, ContactTypeProfessional:
		return true
	default:
		return false
	}
}

// CreateContactParams contains parameters to create a contact.
type CreateContactParams struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Phone  string
	Type   ContactType
}

// ContactPatch holds the fields of a partial update. Nil fields are kept.
type ContactPatch struct {
	Name  *string
	Email *string
	Phone *string
	Type  *ContactType
}

// Apply returns c with every non-nil field of p copied over.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	return c
}
