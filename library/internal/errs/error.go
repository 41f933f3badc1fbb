package errs

import (
	"errors"
)

// Kinds. Every domain error wraps exactly one of them.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidState        = errors.New("invalid state")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInternalConsistency = errors.New("internal consistency violation")
)

var (
	ErrUserNotFound        = New(ErrNotFound, "user not found")
	ErrBookNotFound        = New(ErrNotFound, "book not found")
	ErrBookUnavailable     = New(ErrInvalidState, "book is not available for borrowing")
	ErrNoActiveLoan        = New(ErrInvalidState, "no active borrow record found")
	ErrCopiesOnLoan        = New(ErrInvalidState, "total copies cannot be lower than copies on loan")
	ErrDuplicateActiveLoan = New(ErrConflict, "user has already borrowed this book")
	ErrISBNTaken           = New(ErrConflict, "book with this isbn already exists")
	ErrUsernameTaken       = New(ErrConflict, "username is already taken")
	ErrEmailTaken          = New(ErrConflict, "email is already registered")
	ErrBookReferenced      = New(ErrConflict, "book is referenced by transactions")
	ErrUserReferenced      = New(ErrConflict, "user is referenced by transactions")
	ErrInvalidCredentials  = New(ErrUnauthorized, "invalid credentials")
	ErrNotAllowed          = New(ErrForbidden, "access denied")
)

type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Kind returns the kind sentinel err wraps, nil for foreign errors.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrInvalidState, ErrUnauthorized, ErrForbidden, ErrInternalConsistency} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
