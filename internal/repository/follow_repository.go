package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/pkg/database"
)

// followRepository implements FollowRepository interface
type followRepository struct {
	db *database.Postgres
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *database.Postgres) FollowRepository {
	return &followRepository{db: db}
}

// Follow stores the edge follower -> followee
func (r *followRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.DB.ExecContext(ctx, query, followerID, followeeID, time.Now())
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return fmt.Errorf("failed to follow user %s: %w", followeeID, ErrDuplicateFollow)
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}

	return nil
}

// Unfollow removes the edge follower -> followee
func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}

	return expectOneRow(result, fmt.Errorf("user %s is not followed: %w", followeeID, ErrNotFound))
}

// IsFollowing reports whether the edge follower -> followee exists
func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, followerID, followeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}

	return exists, nil
}

// Followers returns the users following userID
func (r *followRepository) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id IN (SELECT follower_id FROM follows WHERE followee_id = $1)
		ORDER BY username`

	return queryUsers(ctx, r.db, query, userID)
}

// Following returns the users userID follows
func (r *followRepository) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		ORDER BY username`

	return queryUsers(ctx, r.db, query, userID)
}
