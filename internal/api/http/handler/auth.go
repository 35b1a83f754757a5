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

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.TokenPair, error)
	Login(ctx context.Context, email, password string) (model.TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles the /api/users and /api/auth endpoints.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates an account and responds with its first token pair.
func (h *Auth) Register(c *gin.Context) {
	var req api.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	pair, err := h.authService.Register(c.Request.Context(), model.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(pair))
}

// Login checks credentials and responds with a token pair.
func (h *Auth) Login(c *gin.Context) {
	var req api.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(pair))
}

// Me returns the authenticated user.
func (h *Auth) Me(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		apiErr := apierror.NewErrMissingAuthorizationToken()
		c.JSON(apiErr.HTTPCode, api.ErrorResponse{Msg: apiErr.Message})
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, api.User{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Date:  user.CreatedAt,
	})
}

// Refresh rotates a refresh token.
func (h *Auth) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.tokenService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toTokenResponse(pair))
}

// Logout revokes a refresh token. Unknown tokens are not an error.
func (h *Auth) Logout(c *gin.Context) {
	var req api.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tokenService.RevokeByToken(c.Request.Context(), req.RefreshToken); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, api.Message{Msg: "Logged out"})
}

func toTokenResponse(pair model.TokenPair) api.TokenResponse {
	return api.TokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken}
}
