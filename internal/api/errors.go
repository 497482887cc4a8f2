package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Error is a non-2xx backend response. Message holds the body's "error"
// field when the backend supplied one.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// Message returns the server-supplied error text carried by err, or
// fallback when there is none.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func newError(op string, status int, body io.Reader) *Error {
	e := &Error{Op: op, StatusCode: status}
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err == nil && json.Unmarshal(data, &payload) == nil {
		e.Message = payload.Error
	}
	return e
}
