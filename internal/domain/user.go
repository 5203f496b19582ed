package domain

import "time"

// User represents an account in the system
type User struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	Username       string    `json:"username" db:"username"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	FullName       string    `json:"full_name" db:"full_name"`
	PhoneNumber    string    `json:"phone_number" db:"phone_number"`
	CountryCode    string    `json:"country_code" db:"country_code"`
	ProfilePicture *string   `json:"profile_picture" db:"profile_picture"`
	Verified       bool      `json:"verified" db:"verified"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the public projection of a user used in lists
type UserSummary struct {
	ID             string  `json:"userId"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	FullName       string  `json:"fullName"`
	PhoneNumber    string  `json:"phoneNumber"`
	CountryCode    string  `json:"countryCode"`
	ProfilePicture *string `json:"profilePicture"`
}

// Summary returns the public projection of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		FullName:       u.FullName,
		PhoneNumber:    u.PhoneNumber,
		CountryCode:    u.CountryCode,
		ProfilePicture: u.ProfilePicture,
	}
}
