// Package mocks provides testify mocks for the store and token interfaces
// in internal/model.
package mocks

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/contactkeeper/internal/model"
)

var (
	_ model.TokenManager      = (*TokenManager)(nil)
	_ model.RefreshTokenStore = (*RefreshTokenStore)(nil)
	_ model.UserStore         = (*UserStore)(nil)
	_ model.ContactStore      = (*ContactStore)(nil)
	_ model.SecurityLayer     = (*SecurityLayer)(nil)
)

// TokenManager mocks model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *TokenManager) RefreshTTL() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// RefreshTokenStore mocks model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// UserStore mocks model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, model.User) model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}

// ContactStore mocks model.ContactStore. Modify and DeleteIf look the
// contact up through the "GetForUpdate" expectation, run the callback
// against it and then record the write through "Save" or "Delete".
type ContactStore struct {
	mock.Mock
}

func (m *ContactStore) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	args := m.Called(ctx, contact)
	if fn, ok := args.Get(0).(func(context.Context, model.Contact) model.Contact); ok {
		return fn(ctx, contact), args.Error(1)
	}
	return args.Get(0).(model.Contact), args.Error(1)
}

func (m *ContactStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Contact, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Contact), args.Error(1)
}

func (m *ContactStore) Modify(ctx context.Context, id uuid.UUID, fn func(current model.Contact) (model.Contact, error)) (model.Contact, error) {
	args := m.MethodCalled("GetForUpdate", ctx, id)
	if err := args.Error(1); err != nil {
		return model.Contact{}, err
	}

	next, err := fn(args.Get(0).(model.Contact))
	if err != nil {
		return model.Contact{}, err
	}

	saved := m.MethodCalled("Save", ctx, next)
	return saved.Get(0).(model.Contact), saved.Error(1)
}

func (m *ContactStore) DeleteIf(ctx context.Context, id uuid.UUID, check func(current model.Contact) error) error {
	args := m.MethodCalled("GetForUpdate", ctx, id)
	if err := args.Error(1); err != nil {
		return err
	}

	if err := check(args.Get(0).(model.Contact)); err != nil {
		return err
	}

	return m.MethodCalled("Delete", ctx, id).Error(0)
}

// SecurityLayer mocks model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

// NewSecurityLayer creates a SecurityLayer mock whose expectations are
// asserted when t finishes.
func NewSecurityLayer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SecurityLayer {
	m := &SecurityLayer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	if l, ok := args.Get(0).(net.Listener); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
