package domain

import "time"

// GrantType distinguishes access and refresh tokens sharing the same encoding.
type GrantType string

const (
	GrantTypeAccess  GrantType = "ACCESS_TOKEN"
	GrantTypeRefresh GrantType = "REFRESH_TOKEN"
)

// TokenSubject is the identity snapshot embedded in every token.
type TokenSubject struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

// SubjectOf builds the token subject for a user
func SubjectOf(u *User) TokenSubject {
	return TokenSubject{
		UserID:      u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Username:    u.Username,
		CountryCode: u.CountryCode,
		PhoneNumber: u.PhoneNumber,
	}
}

// TokenClaims are the decoded contents of a verified token
type TokenClaims struct {
	TokenSubject
	GrantType GrantType
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// ExpiryLayout is the human-readable layout of TokenPair.ExpiresAt
const ExpiryLayout = "2006-01-02 15:04:05"
