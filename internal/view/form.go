package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"sweetshop-admin/internal/api"
)

var (
	ErrInFlight      = errors.New("submission already in progress")
	ErrRequiredField = errors.New("required field is empty")
)

// MissingFieldError names the first empty required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, ErrRequiredField)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrRequiredField
}

// Field is one named form input.
type Field struct {
	Name     string
	Value    string
	Required bool
}

// CheckRequired returns a MissingFieldError for the first required field
// that is blank.
func CheckRequired(fields ...Field) error {
	for _, f := range fields {
		if f.Required && strings.TrimSpace(f.Value) == "" {
			return &MissingFieldError{Field: f.Name}
		}
	}
	return nil
}

// Submitter is the submit control of a form: an in-flight flag that
// disables it and the inline error shown above the fields.
type Submitter struct {
	mu         sync.Mutex
	submitting bool
	err        string
}

func (s *Submitter) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Error is the inline message from the last failed attempt.
func (s *Submitter) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Run performs one submission. On failure the server's message, or
// fallback, becomes the inline error and the control is re-enabled; the
// error is returned as well. On success onSuccess runs.
func (s *Submitter) Run(ctx context.Context, fallback string, send func(ctx context.Context) error, onSuccess func()) error {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.submitting = true
	s.err = ""
	s.mu.Unlock()

	err := send(ctx)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.err = api.Message(err, fallback)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}
