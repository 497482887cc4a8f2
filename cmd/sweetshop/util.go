package main

import (
	"errors"
	"fmt"
	"strconv"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// formError prefers the message the form showed inline. Validation
// failures never reach the server and leave it empty.
func formError(err error, inline string) error {
	if inline != "" {
		return errors.New(inline)
	}
	return err
}

// reportedError is a failure the user has already seen as a notification.
// It still sets a non-zero exit status but is not printed again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// deleteResult turns a failed confirmed delete into an exit status.
func deleteResult(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}
