package services

import (
	"errors"
	"fmt"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

// Kind classifies a service failure. Handlers translate it to an HTTP status in one place.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind carried by err, KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func validationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func authError(msg string) error       { return &Error{Kind: KindAuth, Message: msg} }
func forbiddenError(msg string) error  { return &Error{Kind: KindForbidden, Message: msg} }
func notFoundError(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
func conflictError(msg string, err error) error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}
func internalError(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// storeError maps repository sentinels onto kinds. notFound is the message used for ErrNotFound.
func storeError(err error, notFound, op string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFoundError(notFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return conflictError("Resource already exists", err)
	default:
		return internalError(op, err)
	}
}
