package utils

import (
	"regexp"
	"strings"
)

var (
	phoneNumberRegex  = regexp.MustCompile(`^[0-9]{8}$`)
	passwordSpecials  = "#?!@$%^&*-"
	maxUsernameLength = 15
)

// ValidatePassword requires at least 8 characters with one uppercase letter,
// one lowercase letter, one digit and one of #?!@$%^&*-
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case 'A' <= char && char <= 'Z':
			hasUpper = true
		case 'a' <= char && char <= 'z':
			hasLower = true
		case '0' <= char && char <= '9':
			hasNumber = true
		case strings.ContainsRune(passwordSpecials, char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasNumber && hasSpecial
}

// ValidatePhoneNumber accepts exactly eight digits
func ValidatePhoneNumber(phone string) bool {
	return phoneNumberRegex.MatchString(phone)
}

// ValidateUsername checks the username length after sanitizing
func ValidateUsername(username string) bool {
	u := SanitizeUsername(username)
	return u != "" && len(u) <= maxUsernameLength
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeUsername lower-cases and trims a username
func SanitizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
