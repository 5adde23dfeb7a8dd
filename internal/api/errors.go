package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned before any request is built when no token is stored.
	ErrNotAuthenticated = errors.New("you must be logged in to perform this action")
	// ErrInvalidURL means the base URL and path do not form a usable URL.
	ErrInvalidURL = errors.New("invalid server URL")
	// ErrInvalidResponse means no HTTP response came back from the transport.
	ErrInvalidResponse = errors.New("invalid response from server")
)

// ServerError is a non-2xx response that carried the error envelope.
type ServerError struct {
	Status int
	Reason string
}

func (e *ServerError) Error() string { return e.Reason }

// StatusError is a non-2xx response without a readable envelope.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("server error (code: %d)", e.Code) }

// errorEnvelope is the body the server sends with failures.
type errorEnvelope struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// IsStatus reports whether err is a server response with the given status.
func IsStatus(err error, code int) bool {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status == code
	}
	var st *StatusError
	if errors.As(err, &st) {
		return st.Code == code
	}
	return false
}
