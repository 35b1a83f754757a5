// Package api holds the JSON wire types shared by the contactkeeper server
// and its clients.
package api

import "time"

// Contact types accepted by the API.
const (
	ContactTypePersonal     = "personal"
	ContactTypeProfessional = "professional"
)

// Contact is a contact as returned by the API.
type Contact struct {
	ID    string    `json:"id"`
	User  string    `json:"user,omitempty"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Phone string    `json:"phone,omitempty"`
	Type  string    `json:"type"`
	Date  time.Time `json:"date,omitzero"`
}

// ContactInput is the request body for creating and updating contacts.
// Nil fields are left untouched on update.
type ContactInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Type  *string `json:"type,omitempty"`
}

// Message is a plain confirmation or error message.
type Message struct {
	Msg string `json:"msg"`
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Msg    string       `json:"msg,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// String returns a pointer to s, for building ContactInput values.
func String(s string) *string {
	return &s
}
