package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to store a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when trying to store a user with an existing username
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicatePhone is returned when trying to store a user with an existing phone number
	ErrDuplicatePhone = errors.New("user with this phone number already exists")

	// ErrDuplicateToken is returned when a token hash is already blacklisted
	ErrDuplicateToken = errors.New("token already blacklisted")

	// ErrAlreadyUsed is returned when a verification code was consumed concurrently
	ErrAlreadyUsed = errors.New("verification code already used")

	// ErrDuplicateFollow is returned when the follow edge already exists
	ErrDuplicateFollow = errors.New("user already followed")

	// ErrDuplicateLike is returned when the user already liked the target
	ErrDuplicateLike = errors.New("already liked")
)

const uniqueViolation = "23505"

// uniqueConstraint reports the violated constraint name for a unique_violation
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// userConflict maps a unique violation on users to a sentinel
func userConflict(constraint string) error {
	switch constraint {
	case "users_username_key":
		return ErrDuplicateUsername
	case "users_phone_key":
		return ErrDuplicatePhone
	default:
		return ErrDuplicateEmail
	}
}
