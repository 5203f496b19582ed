package domain

import "time"

// VerificationCode is the single one-time code record a user owns. Only the
// bcrypt hash of the code is stored.
type VerificationCode struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	CodeHash    string    `db:"code_hash"`
	AlreadyUsed bool      `db:"already_used"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// BlacklistedToken records a refresh token that has been spent.
type BlacklistedToken struct {
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
