package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCategoryInUse blocks deleting a category that products still reference.
	ErrCategoryInUse = errors.New("category has products")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	// ErrRemote is the sentinel every RemoteError unwraps to.
	ErrRemote = errors.New("remote call failed")
)

// RemoteError reports a failed call to the persistence or identity provider.
// In-memory state is left as it was so the caller can retry.
type RemoteError struct {
	Op  string
	Key string
	Err error
}

func (e *RemoteError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("remote %s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Err}
}

// Remote wraps err as a RemoteError unless it already is one.
func Remote(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Key: key, Err: err}
}

// MalformedRecordError is returned when a stored collection fails schema validation.
type MalformedRecordError struct {
	Key   string
	Index int
	Err   error
}

func (e *MalformedRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("malformed %s record %d: %v", e.Key, e.Index, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
