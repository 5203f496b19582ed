package repository

import (
	"context"
	"time"

	"github.com/prperemyshlev/social-service/internal/domain"
)

// UserRepository defines methods for user operations. Email and username
// lookups are case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByPhone(ctx context.Context, countryCode, phoneNumber string) (*domain.User, error)
	GetByEmailOrUsername(ctx context.Context, login string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Search(ctx context.Context, pattern, excludeID string, limit int) ([]*domain.User, error)
}

// VerificationCodeRepository defines methods for one-time code operations
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *domain.VerificationCode) error
	GetByUserID(ctx context.Context, userID string) (*domain.VerificationCode, error)
	// Replace overwrites the hash and marks the code unused
	Replace(ctx context.Context, userID, codeHash string) error
	// Consume marks an unused code as used; ErrAlreadyUsed if it was used already
	Consume(ctx context.Context, userID string) error
}

// BlacklistRepository is the append-only record of spent refresh tokens
type BlacklistRepository interface {
	Add(ctx context.Context, token *domain.BlacklistedToken) error
	Exists(ctx context.Context, tokenHash string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// FollowRepository defines methods for the follow graph
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]*domain.User, error)
	Following(ctx context.Context, userID string) ([]*domain.User, error)
}

// PostRepository defines methods for post operations
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*domain.Post, int, error)
}

// CommentRepository defines methods for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]*domain.Comment, int, error)
}

// LikeTarget selects the post or the comment a like belongs to
type LikeTarget struct {
	PostID    string
	CommentID string
}

// LikeRepository defines methods for like operations
type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	GetByID(ctx context.Context, id string) (*domain.Like, error)
	GetByUserAndTarget(ctx context.Context, userID string, target LikeTarget) (*domain.Like, error)
	Delete(ctx context.Context, id string) error
	ListByTarget(ctx context.Context, target LikeTarget, offset, limit int) ([]*domain.Like, int, error)
}
