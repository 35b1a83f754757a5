// Package memory implements the model stores in process memory. It backs
// the server when no database is configured and keeps the same ordering
// and error semantics as the postgres repositories.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/contactkeeper/internal/model"
)

var (
	_ model.ContactStore      = (*ContactRepository)(nil)
	_ model.UserStore         = (*UserRepository)(nil)
	_ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)
)

// Store holds every table. Its zero value is not usable; call New.
type Store struct {
	mu            sync.Mutex
	contacts      map[uuid.UUID]model.Contact
	users         map[uuid.UUID]model.User
	refreshTokens map[string]model.RefreshToken
	now           func() time.Time
}

func New() *Store {
	return &Store{
		contacts:      make(map[uuid.UUID]model.Contact),
		users:         make(map[uuid.UUID]model.User),
		refreshTokens: make(map[string]model.RefreshToken),
		now:           time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

type ContactRepository struct {
	s *Store
}

func NewContactRepository(s *Store) *ContactRepository {
	return &ContactRepository{s: s}
}

func (r *ContactRepository) Create(_ context.Context, contact model.Contact) (model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contacts[contact.ID]; ok {
		return model.Contact{}, model.ErrAlreadyExists
	}

	now := r.s.now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	r.s.contacts[contact.ID] = contact

	return contact, nil
}

// GetByUserID returns the user's contacts newest first.
func (r *ContactRepository) GetByUserID(_ context.Context, userID uuid.UUID) ([]model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	contacts := make([]model.Contact, 0)
	for _, c := range r.s.contacts {
		if c.UserID == userID {
			contacts = append(contacts, c)
		}
	}

	slices.SortFunc(contacts, func(a, b model.Contact) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return contacts, nil
}

// Modify holds the store lock while fn runs, so the ownership check and the
// write cannot interleave with another mutation.
func (r *ContactRepository) Modify(_ context.Context, id uuid.UUID, fn func(current model.Contact) (model.Contact, error)) (model.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.contacts[id]
	if !ok {
		return model.Contact{}, model.ErrNotFound
	}

	next, err := fn(current)
	if err != nil {
		return model.Contact{}, err
	}

	current.Name = next.Name
	current.Email = next.Email
	current.Phone = next.Phone
	current.Type = next.Type
	current.UpdatedAt = r.s.now()
	r.s.contacts[id] = current

	return current, nil
}

func (r *ContactRepository) DeleteIf(_ context.Context, id uuid.UUID, check func(current model.Contact) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.contacts[id]
	if !ok {
		return model.ErrNotFound
	}

	if err := check(current); err != nil {
		return err
	}

	delete(r.s.contacts, id)
	return nil
}

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrAlreadyExists
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = user

	return user, nil
}

type RefreshTokenRepository struct {
	s *Store
}

func NewRefreshTokenRepository(s *Store) *RefreshTokenRepository {
	return &RefreshTokenRepository{s: s}
}

func (r *RefreshTokenRepository) Create(_ context.Context, token model.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.refreshTokens[token.JTI]; ok {
		return model.ErrAlreadyExists
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.s.refreshTokens[token.JTI] = token
	return nil
}

func (r *RefreshTokenRepository) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token, ok := r.s.refreshTokens[jti]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return token, nil
}

// RevokeByJTI marks an active token revoked. Unknown and already revoked
// tokens report ErrNotFound.
func (r *RefreshTokenRepository) RevokeByJTI(_ context.Context, jti string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token, ok := r.s.refreshTokens[jti]
	if !ok || token.RevokedAt != nil {
		return model.ErrNotFound
	}
	now := r.s.now()
	token.RevokedAt = &now
	r.s.refreshTokens[jti] = token
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for jti, token := range r.s.refreshTokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
			r.s.refreshTokens[jti] = token
		}
	}
	return nil
}
