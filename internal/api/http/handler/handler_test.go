package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/contactkeeper/internal/api/http/context"
	"github.com/dtroode/contactkeeper/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type contactServiceMock struct {
	mock.Mock
}

func (m *contactServiceMock) ListContacts(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	args := m.Called(ctx, userID)
	contacts, _ := args.Get(0).([]model.Contact)
	return contacts, args.Error(1)
}

func (m *contactServiceMock) CreateContact(ctx context.Context, params model.CreateContactParams) (model.Contact, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Contact), args.Error(1)
}

func (m *contactServiceMock) UpdateContact(ctx context.Context, userID, contactID uuid.UUID, patch model.ContactPatch) (model.Contact, error) {
	args := m.Called(ctx, userID, contactID, patch)
	return args.Get(0).(model.Contact), args.Error(1)
}

func (m *contactServiceMock) DeleteContact(ctx context.Context, userID, contactID uuid.UUID) error {
	return m.Called(ctx, userID, contactID).Error(0)
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, params model.RegisterParams) (model.TokenPair, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *authServiceMock) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

type tokenServiceMock struct {
	mock.Mock
}

func (m *tokenServiceMock) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *tokenServiceMock) RevokeByToken(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

// serve runs one request through h with userID (if not nil) set as the
// authenticated caller.
func serve(t *testing.T, method, route, target string, userID uuid.UUID, body any, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	cm := httpctx.NewManager()
	engine := gin.New()
	engine.Handle(method, route, func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Request = c.Request.WithContext(cm.SetUserIDToContext(c.Request.Context(), userID))
		}
		c.Next()
	}, h)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
