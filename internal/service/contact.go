package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/contactkeeper/internal/apierror"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/model"
)

// Contact implements contact management for authenticated users.
type Contact struct {
	contactStore model.ContactStore
	logger       *logger.Logger
}

func NewContact(contactStore model.ContactStore, logger *logger.Logger) *Contact {
	return &Contact{
		contactStore: contactStore,
		logger:       logger,
	}
}

// ListContacts returns the user's contacts, newest first.
func (s *Contact) ListContacts(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	contacts, err := s.contactStore.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts by user id: %w", err)
	}

	return contacts, nil
}

// CreateContact validates params and stores a new contact owned by
// params.UserID.
func (s *Contact) CreateContact(ctx context.Context, params model.CreateContactParams) (model.Contact, error) {
	contact := model.Contact{
		ID:     uuid.New(),
		UserID: params.UserID,
		Name:   params.Name,
		Email:  params.Email,
		Phone:  params.Phone,
		Type:   params.Type,
	}
	contact = normalizeContact(contact)
	if contact.Type == "" {
		contact.Type = model.ContactTypePersonal
	}

	if err := validateContact(contact); err != nil {
		return model.Contact{}, err
	}

	saved, err := s.contactStore.Create(ctx, contact)
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	s.logger.Debug("Contact service: contact created",
		"user_id", params.UserID,
		"contact_id", saved.ID)

	return saved, nil
}

// UpdateContact merges patch into the contact if userID owns it.
func (s *Contact) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, patch model.ContactPatch) (model.Contact, error) {
	updated, err := s.contactStore.Modify(ctx, contactID, func(current model.Contact) (model.Contact, error) {
		if current.UserID != userID {
			s.logForeignAccess("update", userID, current)
			return model.Contact{}, apierror.NewErrNotAuthorized()
		}

		next := normalizeContact(patch.Apply(current))
		if err := validateContact(next); err != nil {
			return model.Contact{}, err
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Contact{}, apierror.NewErrContactNotFound()
		}
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return updated, nil
}

// DeleteContact removes the contact if userID owns it.
func (s *Contact) DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error {
	err := s.contactStore.DeleteIf(ctx, contactID, func(current model.Contact) error {
		if current.UserID != userID {
			s.logForeignAccess("delete", userID, current)
			return apierror.NewErrNotAuthorized()
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewErrContactNotFound()
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil
}

func (s *Contact) logForeignAccess(op string, userID uuid.UUID, contact model.Contact) {
	s.logger.Warn("Contact service: ownership check failed",
		"op", op,
		"user_id", userID,
		"contact_id", contact.ID,
		"owner_id", contact.UserID)
}

func validateContact(c model.Contact) error {
	var errs apierror.ValidationErrors
	if c.Name == "" {
		errs.Add("name", "Name is required")
	}
	if !c.Type.Valid() {
		errs.Add("type", "Type must be personal or professional")
	}
	return errs.Err()
}

// normalizeContact trims surrounding whitespace from the free-text fields.
func normalizeContact(c model.Contact) model.Contact {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}
