// Package apierror defines errors that carry their own HTTP status and a
// message that is safe to show to API callers.
package apierror

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dtroode/contactkeeper/pkg/api"
)

// APIError is an error returned to the caller as {"msg": Message}.
type APIError struct {
	HTTPCode int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewErrContactNotFound reports a missing contact.
func NewErrContactNotFound() *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Message: "Contact not found"}
}

// NewErrNotAuthorized reports an attempt to touch another user's contact.
func NewErrNotAuthorized() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Message: "Not authorized"}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Message: "No token, authorization denied"}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Message: "Token is not valid"}
}

func NewErrInvalidRefreshToken() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Message: "Refresh token is not valid"}
}

// NewErrUserAlreadyExists reports a registration with a taken email.
func NewErrUserAlreadyExists() *APIError {
	return &APIError{HTTPCode: http.StatusBadRequest, Message: "User already exists"}
}

// NewErrInvalidCredentials is returned for both unknown emails and wrong
// passwords.
func NewErrInvalidCredentials() *APIError {
	return &APIError{HTTPCode: http.StatusBadRequest, Message: "Invalid Credentials"}
}

// NewErrInvalidRequestBody reports a body that is not valid JSON for the
// endpoint.
func NewErrInvalidRequestBody() *APIError {
	return &APIError{HTTPCode: http.StatusBadRequest, Message: "Invalid request body"}
}

func NewErrUserNotFound(id string) *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Message: fmt.Sprintf("User %s not found", id)}
}

// ValidationErrors collects invalid request fields. It is returned to the
// caller with status 400.
type ValidationErrors []api.FieldError

// Add appends a field error.
func (v *ValidationErrors) Add(param, msg string) {
	*v = append(*v, api.FieldError{Param: param, Msg: msg})
}

// Err returns v as an error, or nil if it is empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Param+": "+e.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
