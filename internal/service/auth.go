package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/contactkeeper/internal/apierror"
	"github.com/dtroode/contactkeeper/internal/logger"
	"github.com/dtroode/contactkeeper/internal/model"
)

const (
	minPasswordLength = 6
	// maxPasswordLength is the longest input bcrypt accepts.
	maxPasswordLength = 72
)

type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	passwordCost int
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	tokenService *TokenService,
	passwordCost int,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: tokenService,
		passwordCost: passwordCost,
		logger:       logger,
	}
}

// Register creates a user account and returns a fresh token pair for it.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.TokenPair, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = normalizeEmail(params.Email)

	if err := validateRegistration(params); err != nil {
		return model.TokenPair{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.TokenPair{}, apierror.NewErrUserAlreadyExists()
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.passwordCost)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.TokenPair{}, apierror.NewErrUserAlreadyExists()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID)

	return a.tokenService.Issue(ctx, user.ID)
}

// Login checks the credentials and returns a fresh token pair.
func (a *Auth) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	email = normalizeEmail(email)

	var errs apierror.ValidationErrors
	if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Please include a valid email")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}
	if err := errs.Err(); err != nil {
		return model.TokenPair{}, err
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenPair{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Debug("Auth service: password mismatch",
			"user_id", user.ID)
		return model.TokenPair{}, apierror.NewErrInvalidCredentials()
	}

	return a.tokenService.Issue(ctx, user.ID)
}

// Me returns the authenticated user.
func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apierror.NewErrUserNotFound(userID.String())
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func validateRegistration(params model.RegisterParams) error {
	var errs apierror.ValidationErrors
	if params.Name == "" {
		errs.Add("name", "Please add name")
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		errs.Add("email", "Please include a valid email")
	}
	if len(params.Password) < minPasswordLength {
		errs.Add("password", fmt.Sprintf("Please enter a password with %d or more characters", minPasswordLength))
	}
	if len(params.Password) > maxPasswordLength {
		errs.Add("password", fmt.Sprintf("Please enter a password with %d or fewer bytes", maxPasswordLength))
	}
	return errs.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
