package pagination

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters is returned before any request is sent when the
	// caller passed a page size <= 0, an unknown sort mode, a sort the resource
	// does not support, or After/Before without a cursor.
	ErrInvalidParameters = errors.New("invalid pagination parameters")

	// ErrMalformedResponse matches every *MalformedResponseError via errors.Is.
	ErrMalformedResponse = errors.New("malformed page response")
)

// MalformedResponseError is returned when a 2xx body does not have the page
// shape or an item cannot be mapped.
type MalformedResponseError struct {
	Resource string
	Details  string
	Err      error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed %s page: %s", e.Resource, e.Details)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decode error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedResponse as a match.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
