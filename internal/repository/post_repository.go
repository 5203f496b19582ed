package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/pkg/database"
)

const postColumns = `id, user_id, caption, media, created_at, updated_at`

// postRepository implements PostRepository interface
type postRepository struct {
	db *database.Postgres
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.Postgres) PostRepository {
	return &postRepository{db: db}
}

func scanPost(row rowScanner) (*domain.Post, error) {
	post := &domain.Post{}
	var caption sql.NullString
	var media pq.StringArray

	if err := row.Scan(&post.ID, &post.UserID, &caption, &media, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, err
	}

	if caption.Valid {
		post.Caption = &caption.String
	}
	post.Media = []string(media)
	if post.Media == nil {
		post.Media = []string{}
	}

	return post, nil
}

// Create stores a new post
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, caption, media, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := r.db.DB.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.Caption,
		pq.Array(post.Media),
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("post with id %s not found: %w", id, ErrNotFound)
	}

	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// Update replaces the caption and media of a post
func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET caption = $2, media = $3, updated_at = $4
		WHERE id = $1
	`

	post.UpdatedAt = time.Now()

	result, err := r.db.DB.ExecContext(ctx, query, post.ID, post.Caption, pq.Array(post.Media), post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return expectOneRow(result, fmt.Errorf("post with id %s not found: %w", post.ID, ErrNotFound))
}

// Delete removes a post together with its comments and likes
func (r *postRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("post with id %s not found: %w", id, ErrNotFound)
	}

	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return expectOneRow(result, fmt.Errorf("post with id %s not found: %w", id, ErrNotFound))
}

// ListByUser returns a window of the user's posts, newest first, and the total count
func (r *postRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*domain.Post, int, error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY updated_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.DB.QueryContext(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, total, nil
}

func count(ctx context.Context, db *database.Postgres, query string, args ...any) (int, error) {
	var total int
	if err := db.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
