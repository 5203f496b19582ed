package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP layer maps each kind to one status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindInvalid
	KindTokenInvalid
	KindForbidden
	KindAlreadyUsed
	KindAlreadyVerified
	KindUploadFailed
	KindNotFound
	KindWrongEntry
)

var kindNames = map[Kind]string{
	KindInternal:        "Internal",
	KindValidation:      "Validation",
	KindConflict:        "Conflict",
	KindUnauthorized:    "Unauthorized",
	KindInvalid:         "Invalid",
	KindTokenInvalid:    "TokenInvalid",
	KindForbidden:       "Forbidden",
	KindAlreadyUsed:     "AlreadyUsed",
	KindAlreadyVerified: "AlreadyVerified",
	KindUploadFailed:    "UploadFailed",
	KindNotFound:        "NotFound",
	KindWrongEntry:      "WrongEntry",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a typed workflow failure. Name and Message are safe to show to
// clients; Err carries the internal cause, if any.
type Error struct {
	Kind    Kind
	Name    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, name, message string) *Error {
	return &Error{Kind: kind, Name: name, Message: message}
}

// internalError wraps an unexpected persistence or infrastructure failure
func internalError(op string, err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Name:    "Internal",
		Message: "An error has occured",
		Err:     fmt.Errorf("%s: %w", op, err),
	}
}

// KindOf returns the kind of err, KindInternal for untyped errors
func KindOf(err error) Kind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return KindInternal
}

var (
	errUserNotFound = newError(KindNotFound, "Not Found", "User does not exist")
	errCodeNotFound = newError(KindNotFound, "Not Found", "Verification code does not exist")
	errPostNotFound = newError(KindNotFound, "Not Found", "Post does not exist")
	errCommentGone  = newError(KindNotFound, "Not Found", "Comment does not exist")
	errBadLogin     = newError(KindUnauthorized, "Unauthorized", "Please check your login credentials")
	errCodeUsed     = newError(KindAlreadyUsed, "Already Used", "Verification code already used")
	errWrongCode    = newError(KindWrongEntry, "Wrong Entry", "Wrong verification code")
	errInvalidToken = newError(KindInvalid, "Invalid", "Invalid token")
	errNotOwner     = newError(KindForbidden, "Forbidden", "You are not the owner of this resource")
)
