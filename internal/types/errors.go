// README: Error taxonomy shared by the matching and order modules.
package types

import (
	"errors"
	"fmt"
)

// Kinds. Domain errors unwrap to exactly one of these.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// Error is a domain error carrying a caller-visible message.
type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Unavailable marks err as a failed collaborator call. The result matches
// ErrStoreUnavailable and still unwraps to err for logging.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// Kind returns the taxonomy kind of err, or nil when err is unclassified.
func Kind(err error) error {
	for _, k := range []error{ErrStoreUnavailable, ErrBadRequest, ErrPreconditionFailed, ErrNotFound, ErrForbidden, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
