package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/dtroode/contactkeeper/internal/api/http/context"
	"github.com/dtroode/contactkeeper/internal/api/http/router"
	"github.com/dtroode/contactkeeper/internal/repository/memory"
	"github.com/dtroode/contactkeeper/internal/service"
	"github.com/dtroode/contactkeeper/internal/testutil"
	"github.com/dtroode/contactkeeper/internal/token"
	"github.com/dtroode/contactkeeper/pkg/api"
)

// newTestServer runs the full API over an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lg := testutil.MakeNoopLogger()
	store := memory.New()
	tokenService := service.NewTokenService(
		token.NewJWT("client-test", time.Minute, time.Hour),
		memory.NewRefreshTokenRepository(store),
		lg,
	)
	authService := service.NewAuth(memory.NewUserRepository(store), tokenService, bcrypt.MinCost, lg)
	contactService := service.NewContact(memory.NewContactRepository(store), lg)
	engine := router.New(authService, contactService, tokenService, store, httpctx.NewManager(), lg).Register()

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func newRegisteredClient(t *testing.T, srv *httptest.Server, email string) (*Client, api.TokenResponse) {
	t.Helper()

	c, err := New(srv.URL+"/", "", 5*time.Second)
	require.NoError(t, err)

	tokens, err := c.Register(context.Background(), api.RegisterRequest{Name: "Test", Email: email, Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, tokens.Token, c.Token())
	return c, tokens
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("ftp://example.com", "", time.Second)
	assert.Error(t, err)

	_, err = New("://bad", "", time.Second)
	assert.Error(t, err)
}

func TestClient_ContactLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c, _ := newRegisteredClient(t, srv, "jill@example.com")

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jill@example.com", me.Email)

	created, err := c.CreateContact(ctx, api.ContactInput{Name: api.String("Ryan Dulac"), Phone: api.String("757-666-2345")})
	require.NoError(t, err)
	assert.Equal(t, me.ID, created.User)

	updated, err := c.UpdateContact(ctx, created.ID, api.ContactInput{Email: api.String("dulac@gmail.com")})
	require.NoError(t, err)
	assert.Equal(t, "Ryan Dulac", updated.Name)
	assert.Equal(t, "dulac@gmail.com", updated.Email)

	list, err := c.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.DeleteContact(ctx, created.ID))

	err = c.DeleteContact(ctx, created.ID)
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
	assert.Equal(t, "Contact not found", respErr.Message)
}

func TestClient_ErrorsDecoded(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	c, _ := newRegisteredClient(t, srv, "jill@example.com")

	_, err := c.CreateContact(ctx, api.ContactInput{Type: api.String("family")})
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
	require.Len(t, respErr.Errors, 2)
	assert.Contains(t, respErr.Error(), "name: Name is required")

	anonymous, err := New(srv.URL, "", time.Second)
	require.NoError(t, err)
	_, err = anonymous.ListContacts(ctx)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
	assert.Equal(t, "No token, authorization denied", respErr.Message)
}

func TestClient_LoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	newRegisteredClient(t, srv, "jill@example.com")

	c, err := New(srv.URL, "", time.Second)
	require.NoError(t, err)

	_, err = c.Login(ctx, api.LoginRequest{Email: "jill@example.com", Password: "nope-nope"})
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "Invalid Credentials", respErr.Message)

	tokens, err := c.Login(ctx, api.LoginRequest{Email: "jill@example.com", Password: "secret1"})
	require.NoError(t, err)

	rotated, err := c.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	require.NoError(t, c.Logout(ctx, rotated.RefreshToken))
	assert.Empty(t, c.Token())

	_, err = c.Refresh(ctx, rotated.RefreshToken)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "tok", time.Second)
	require.NoError(t, err)

	_, err = c.ListContacts(context.Background())
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
	assert.Equal(t, "Bad Gateway", respErr.Message)
}
