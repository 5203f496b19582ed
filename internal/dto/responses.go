package dto

import (
	"time"

	"github.com/prperemyshlev/social-service/internal/domain"
)

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// AuthResponse carries the user and a fresh token pair
type AuthResponse struct {
	User         domain.UserSummary `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	ExpiresAt    string             `json:"expires_at"`
}

// NewAuthResponse builds an AuthResponse
func NewAuthResponse(user *domain.User, tokens *domain.TokenPair) AuthResponse {
	return AuthResponse{
		User:         user.Summary(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}
}

// UserResponse wraps a single user
type UserResponse struct {
	Message string             `json:"message,omitempty"`
	User    domain.UserSummary `json:"user"`
}

// ProfileResponse is a user with the follow graph around it
type ProfileResponse struct {
	User      domain.UserSummary   `json:"user"`
	Verified  bool                 `json:"verified"`
	Followers []domain.UserSummary `json:"followers"`
	Following []domain.UserSummary `json:"following"`
}

// FollowersResponse lists followers
type FollowersResponse struct {
	Followers []domain.UserSummary `json:"followers"`
}

// FollowingResponse lists followed users
type FollowingResponse struct {
	Following []domain.UserSummary `json:"following"`
}

// UsersResponse lists users
type UsersResponse struct {
	Users []domain.UserSummary `json:"users"`
}

// PostResponse is a post with its author
type PostResponse struct {
	PostID    string             `json:"postId"`
	Media     []string           `json:"post"`
	Caption   *string            `json:"caption"`
	User      domain.UserSummary `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// CommentResponse is a comment with its author
type CommentResponse struct {
	CommentID string             `json:"commentId"`
	PostID    string             `json:"postId"`
	Comment   string             `json:"comment"`
	Edited    bool               `json:"isEdited"`
	User      domain.UserSummary `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// LikeResponse is a like with the user who left it
type LikeResponse struct {
	LikeID    string             `json:"likeId"`
	PostID    *string            `json:"postId"`
	CommentID *string            `json:"commentId"`
	User      domain.UserSummary `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
}
