// Package client talks to the contactkeeper HTTP API and keeps a local
// copy of the caller's contacts in a state.Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtroode/contactkeeper/pkg/api"
)

// ResponseError is a non-2xx answer from the server.
type ResponseError struct {
	StatusCode int
	Message    string
	Errors     []api.FieldError
}

func (e *ResponseError) Error() string {
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			msgs = append(msgs, fe.Param+": "+fe.Msg)
		}
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for one server and, once logged in, one user.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// New creates a Client for the server at serverURL. token may be empty
// until Register or Login is called.
func New(serverURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}, nil
}

// Token returns the access token used for authenticated requests.
func (c *Client) Token() string {
	return c.token
}

// Register creates an account and stores its access token in c.
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/users", req, &resp); err != nil {
		return api.TokenResponse{}, err
	}
	c.token = resp.Token
	return resp, nil
}

// Login stores a fresh access token in c.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth", req, &resp); err != nil {
		return api.TokenResponse{}, err
	}
	c.token = resp.Token
	return resp, nil
}

// Refresh exchanges refreshToken for a new pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", api.RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return api.TokenResponse{}, err
	}
	c.token = resp.Token
	return resp, nil
}

// Logout revokes refreshToken and forgets the access token.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", api.RefreshRequest{RefreshToken: refreshToken}, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) Me(ctx context.Context) (api.User, error) {
	var user api.User
	err := c.do(ctx, http.MethodGet, "/api/auth", nil, &user)
	return user, err
}

func (c *Client) ListContacts(ctx context.Context) ([]api.Contact, error) {
	var contacts []api.Contact
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) CreateContact(ctx context.Context, in api.ContactInput) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodPost, "/api/contacts", in, &contact)
	return contact, err
}

func (c *Client) UpdateContact(ctx context.Context, id string, in api.ContactInput) (api.Contact, error) {
	var contact api.Contact
	err := c.do(ctx, http.MethodPut, "/api/contacts/"+url.PathEscape(id), in, &contact)
	return contact, err
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/contacts/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	respErr := &ResponseError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return respErr
	}
	if body.Msg != "" {
		respErr.Message = body.Msg
	}
	respErr.Errors = body.Errors
	return respErr
}
