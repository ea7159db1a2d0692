package models

import "fmt"

type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindInvalidToken       ErrorKind = "INVALID_TOKEN"
	KindExpiredToken       ErrorKind = "EXPIRED_TOKEN"
	KindUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindValidation         ErrorKind = "VALIDATION_ERROR"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindTimeout            ErrorKind = "TIMEOUT"
	KindConflict           ErrorKind = "CONFLICT"
	KindRateLimited        ErrorKind = "RATE_LIMITED"
	KindInternal           ErrorKind = "INTERNAL_ERROR"
)

// Error is a classified failure that is safe to show to API callers.
// Anything that is not an *Error is treated as internal.
type Error struct {
	Kind    ErrorKind
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind, so errors.Is(err, ErrNotFound) holds for any
// not-found error regardless of message or details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "invalid token"}
	ErrExpiredToken       = &Error{Kind: KindExpiredToken, Message: "token has expired"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "insufficient permissions"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "record not found"}
	ErrTimeout            = &Error{Kind: KindTimeout, Message: "operation timed out"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict"}
	ErrRateLimited        = &Error{Kind: KindRateLimited, Message: "too many requests"}
)

func NewValidationError(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NewNotFoundError(resource string, id uint) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %d not found", resource, id)}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}
