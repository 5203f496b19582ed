package dto

// SignupRequest represents a registration request
type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,max=15"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required,len=8,numeric"`
	CountryCode string `json:"countryCode" binding:"required"`
}

// SigninRequest represents a login request
type SigninRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// VerifyRequest confirms the email address with the mailed code
type VerifyRequest struct {
	Email            string `json:"email" binding:"required,email"`
	VerificationCode int    `json:"verificationCode" binding:"required"`
}

// ResendVerificationCodeRequest asks for a fresh code
type ResendVerificationCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password using the mailed code
type ResetPasswordRequest struct {
	Email            string `json:"email" binding:"required,email"`
	NewPassword      string `json:"newPassword" binding:"required"`
	VerificationCode int    `json:"verificationCode" binding:"required"`
}

// ChangePasswordRequest represents an authenticated password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// EditProfileRequest replaces the caller's profile fields
type EditProfileRequest struct {
	Username    string `json:"username" binding:"required,max=15"`
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required,len=8,numeric"`
	CountryCode string `json:"countryCode" binding:"required"`
}

// EditPostRequest replaces a post caption
type EditPostRequest struct {
	Caption *string `json:"caption"`
}

// CommentRequest creates a comment on a post
type CommentRequest struct {
	PostID  string `json:"postId" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// EditCommentRequest replaces a comment body
type EditCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// LikeRequest likes a post or a comment
type LikeRequest struct {
	PostID    string `json:"postId"`
	CommentID string `json:"commentId"`
}

// UnlikeRequest removes a like by id or by target
type UnlikeRequest struct {
	LikeID    string `json:"likeId"`
	PostID    string `json:"postId"`
	CommentID string `json:"commentId"`
}
