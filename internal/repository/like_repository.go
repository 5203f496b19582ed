package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/pkg/database"
)

const likeColumns = `id, user_id, post_id, comment_id, created_at`

// likeRepository implements LikeRepository interface
type likeRepository struct {
	db *database.Postgres
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *database.Postgres) LikeRepository {
	return &likeRepository{db: db}
}

// column returns the column and id the target filters on
func (t LikeTarget) column() (string, string) {
	if t.PostID != "" {
		return "post_id", t.PostID
	}
	return "comment_id", t.CommentID
}

func scanLike(row rowScanner) (*domain.Like, error) {
	like := &domain.Like{}
	var postID, commentID sql.NullString

	if err := row.Scan(&like.ID, &like.UserID, &postID, &commentID, &like.CreatedAt); err != nil {
		return nil, err
	}

	if postID.Valid {
		like.PostID = &postID.String
	}
	if commentID.Valid {
		like.CommentID = &commentID.String
	}

	return like, nil
}

// Create stores a like; a second like of the same target by the same user
// fails with ErrDuplicateLike.
func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (id, user_id, post_id, comment_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	like.CreatedAt = time.Now()

	_, err := r.db.DB.ExecContext(ctx, query,
		like.ID,
		like.UserID,
		like.PostID,
		like.CommentID,
		like.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return fmt.Errorf("failed to create like: %w", ErrDuplicateLike)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	return nil
}

// GetByID retrieves a like by ID
func (r *likeRepository) GetByID(ctx context.Context, id string) (*domain.Like, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("like with id %s not found: %w", id, ErrNotFound)
	}

	query := `SELECT ` + likeColumns + ` FROM likes WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByUserAndTarget retrieves the like a user left on a post or comment
func (r *likeRepository) GetByUserAndTarget(ctx context.Context, userID string, target LikeTarget) (*domain.Like, error) {
	column, targetID := target.column()
	if _, err := uuid.Parse(targetID); err != nil {
		return nil, fmt.Errorf("like on %s not found: %w", targetID, ErrNotFound)
	}

	query := `SELECT ` + likeColumns + ` FROM likes WHERE user_id = $1 AND ` + column + ` = $2`
	return r.getOne(ctx, query, userID, targetID)
}

func (r *likeRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Like, error) {
	like, err := scanLike(r.db.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("like not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return like, nil
}

// Delete removes a like
func (r *likeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	return expectOneRow(result, fmt.Errorf("like with id %s not found: %w", id, ErrNotFound))
}

// ListByTarget returns a window of likes on a post or comment, newest first, and the total count
func (r *likeRepository) ListByTarget(ctx context.Context, target LikeTarget, offset, limit int) ([]*domain.Like, int, error) {
	column, targetID := target.column()

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM likes WHERE `+column+` = $1`, targetID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count likes: %w", err)
	}

	query := `SELECT ` + likeColumns + `
		FROM likes
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.DB.QueryContext(ctx, query, targetID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	likes := make([]*domain.Like, 0)
	for rows.Next() {
		like, err := scanLike(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan like: %w", err)
		}
		likes = append(likes, like)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate likes: %w", err)
	}

	return likes, total, nil
}
