package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/contactkeeper/internal/api/http/context"
	"github.com/dtroode/contactkeeper/internal/apierror"
	"github.com/dtroode/contactkeeper/internal/model"
	"github.com/dtroode/contactkeeper/internal/testutil"
	"github.com/dtroode/contactkeeper/pkg/api"
)

func newContactHandler() (*Contact, *contactServiceMock) {
	svc := &contactServiceMock{}
	return NewContact(svc, httpctx.NewManager(), testutil.MakeNoopLogger()), svc
}

func TestContact_List(t *testing.T) {
	userID := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stored := model.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Jill Johnson",
		Email:     "jill@gmail.com",
		Phone:     "111-111-1111",
		Type:      model.ContactTypePersonal,
		CreatedAt: created,
	}

	t.Run("returns caller contacts", func(t *testing.T) {
		h, svc := newContactHandler()
		svc.On("ListContacts", mock.Anything, userID).Return([]model.Contact{stored}, nil)

		rec := serve(t, http.MethodGet, "/api/contacts", "/api/contacts", userID, nil, h.List)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[[]api.Contact](t, rec)
		require.Len(t, got, 1)
		assert.Equal(t, api.Contact{
			ID:    stored.ID.String(),
			User:  userID.String(),
			Name:  "Jill Johnson",
			Email: "jill@gmail.com",
			Phone: "111-111-1111",
			Type:  "personal",
			Date:  created,
		}, got[0])
		svc.AssertExpectations(t)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		h, svc := newContactHandler()
		svc.On("ListContacts", mock.Anything, userID).Return([]model.Contact{}, nil)

		rec := serve(t, http.MethodGet, "/api/contacts", "/api/contacts", userID, nil, h.List)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		h, svc := newContactHandler()
		svc.On("ListContacts", mock.Anything, userID).Return(nil, errors.New("db down"))

		rec := serve(t, http.MethodGet, "/api/contacts", "/api/contacts", userID, nil, h.List)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server Error", decode[api.ErrorResponse](t, rec).Msg)
	})

	t.Run("no caller", func(t *testing.T) {
		h, svc := newContactHandler()

		rec := serve(t, http.MethodGet, "/api/contacts", "/api/contacts", uuid.Nil, nil, h.List)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "ListContacts", mock.Anything, mock.Anything)
	})
}

func TestContact_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("passes body with caller as owner", func(t *testing.T) {
		h, svc := newContactHandler()
		want := model.CreateContactParams{
			UserID: userID,
			Name:   "Harry White",
			Email:  "harry@example.com",
			Type:   model.ContactTypeProfessional,
		}
		svc.On("CreateContact", mock.Anything, want).Return(model.Contact{
			ID:     uuid.New(),
			UserID: userID,
			Name:   "Harry White",
			Email:  "harry@example.com",
			Type:   model.ContactTypeProfessional,
		}, nil)

		body := map[string]string{
			"name":  "Harry White",
			"email": "harry@example.com",
			"type":  "professional",
			"user":  uuid.NewString(),
		}
		rec := serve(t, http.MethodPost, "/api/contacts", "/api/contacts", userID, body, h.Create)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[api.Contact](t, rec)
		assert.Equal(t, userID.String(), got.User)
		assert.NotEmpty(t, got.ID)
		svc.AssertExpectations(t)
	})

	t.Run("validation errors", func(t *testing.T) {
		h, svc := newContactHandler()
		var verrs apierror.ValidationErrors
		verrs.Add("name", "Name is required")
		svc.On("CreateContact", mock.Anything, mock.Anything).Return(model.Contact{}, verrs)

		rec := serve(t, http.MethodPost, "/api/contacts", "/api/contacts", userID, map[string]string{}, h.Create)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		got := decode[api.ErrorResponse](t, rec)
		assert.Equal(t, []api.FieldError{{Param: "name", Msg: "Name is required"}}, got.Errors)
	})

	t.Run("malformed body", func(t *testing.T) {
		h, svc := newContactHandler()

		rec := serve(t, http.MethodPost, "/api/contacts", "/api/contacts", userID, "{not json", h.Create)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decode[api.ErrorResponse](t, rec).Msg)
		svc.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
	})
}

func TestContact_Update(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()

	t.Run("partial patch", func(t *testing.T) {
		h, svc := newContactHandler()
		svc.On("UpdateContact", mock.Anything, userID, contactID, mock.MatchedBy(func(p model.ContactPatch) bool {
			return p.Name == nil && p.Email == nil && p.Phone != nil && *p.Phone == "222" &&
				p.Type != nil && *p.Type == model.ContactTypeProfessional
		})).Return(model.Contact{ID: contactID, UserID: userID, Name: "Jill", Phone: "222", Type: model.ContactTypeProfessional}, nil)

		body := map[string]string{"phone": "222", "type": "professional"}
		rec := serve(t, http.MethodPut, "/api/contacts/:id", "/api/contacts/"+contactID.String(), userID, body, h.Update)

		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[api.Contact](t, rec)
		assert.Equal(t, "Jill", got.Name)
		assert.Equal(t, "222", got.Phone)
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		target     string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed id",
			target:     "/api/contacts/not-a-uuid",
			wantStatus: http.StatusNotFound,
			wantMsg:    "Contact not found",
		},
		{
			name:       "not found",
			target:     "/api/contacts/" + contactID.String(),
			svcErr:     apierror.NewErrContactNotFound(),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Contact not found",
		},
		{
			name:       "foreign contact",
			target:     "/api/contacts/" + contactID.String(),
			svcErr:     apierror.NewErrNotAuthorized(),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newContactHandler()
			if tt.svcErr != nil {
				svc.On("UpdateContact", mock.Anything, userID, contactID, mock.Anything).Return(model.Contact{}, tt.svcErr)
			}

			rec := serve(t, http.MethodPut, "/api/contacts/:id", tt.target, userID, map[string]string{"name": "X"}, h.Update)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decode[api.ErrorResponse](t, rec).Msg)
			svc.AssertExpectations(t)
		})
	}
}

func TestContact_Delete(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()

	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantMsg    string
	}{
		{name: "removed", wantStatus: http.StatusOK, wantMsg: "Contact removed"},
		{name: "not found", svcErr: apierror.NewErrContactNotFound(), wantStatus: http.StatusNotFound, wantMsg: "Contact not found"},
		{name: "foreign contact", svcErr: apierror.NewErrNotAuthorized(), wantStatus: http.StatusUnauthorized, wantMsg: "Not authorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newContactHandler()
			svc.On("DeleteContact", mock.Anything, userID, contactID).Return(tt.svcErr)

			rec := serve(t, http.MethodDelete, "/api/contacts/:id", "/api/contacts/"+contactID.String(), userID, nil, h.Delete)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decode[api.Message](t, rec).Msg)
			svc.AssertExpectations(t)
		})
	}
}
