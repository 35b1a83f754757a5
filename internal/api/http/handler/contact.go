package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/contactkeeper/internal/apierror"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/model"
	"github.com/dtroode/contactkeeper/pkg/api"
)

// ContactService defines contact operations on behalf of a user.
type ContactService interface {
	ListContacts(ctx context.Context, userID uuid.UUID) ([]model.Contact, error)
	CreateContact(ctx context.Context, params model.CreateContactParams) (model.Contact, error)
	UpdateContact(ctx context.Context, userID, contactID uuid.UUID, patch model.ContactPatch) (model.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error
}

// Contact handles the /api/contacts endpoints.
type Contact struct {
	contactService ContactService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewContact creates a new Contact handler.
func NewContact(contactService ContactService, contextManager model.ContextManager, logger *logger.Logger) *Contact {
	return &Contact{
		contactService: contactService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List returns every contact of the caller.
func (h *Contact) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	resp := make([]api.Contact, 0, len(contacts))
	for _, contact := range contacts {
		resp = append(resp, toAPIContact(contact))
	}

	c.JSON(http.StatusOK, resp)
}

// Create stores a new contact owned by the caller.
func (h *Contact) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req api.ContactInput
	if !bindJSON(c, &req) {
		return
	}

	params := model.CreateContactParams{
		UserID: userID,
		Name:   deref(req.Name),
		Email:  deref(req.Email),
		Phone:  deref(req.Phone),
		Type:   model.ContactType(deref(req.Type)),
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), params)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.logger.Info("Contact handler: contact created",
		"user_id", userID,
		"contact_id", contact.ID)

	c.JSON(http.StatusOK, toAPIContact(contact))
}

// Update applies the provided fields to one of the caller's contacts.
func (h *Contact) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	var req api.ContactInput
	if !bindJSON(c, &req) {
		return
	}

	patch := model.ContactPatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.Type != nil {
		t := model.ContactType(*req.Type)
		patch.Type = &t
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), userID, contactID, patch)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toAPIContact(contact))
}

// Delete removes one of the caller's contacts.
func (h *Contact) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), userID, contactID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.logger.Info("Contact handler: contact removed",
		"user_id", userID,
		"contact_id", contactID)

	c.JSON(http.StatusOK, api.Message{Msg: "Contact removed"})
}

func (h *Contact) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		apiErr := apierror.NewErrMissingAuthorizationToken()
		c.JSON(apiErr.HTTPCode, api.ErrorResponse{Msg: apiErr.Message})
		return uuid.Nil, false
	}
	return userID, true
}

// contactIDParam parses the :id path segment. An id that is not a UUID
// cannot name any contact, so it is reported as not found.
func contactIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apiErr := apierror.NewErrContactNotFound()
		c.JSON(apiErr.HTTPCode, api.ErrorResponse{Msg: apiErr.Message})
		return uuid.Nil, false
	}
	return id, true
}

func toAPIContact(c model.Contact) api.Contact {
	return api.Contact{
		ID:    c.ID.String(),
		User:  c.UserID.String(),
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Type:  string(c.Type),
		Date:  c.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
