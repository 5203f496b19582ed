package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/pkg/database"
)

// blacklistRepository implements BlacklistRepository interface
type blacklistRepository struct {
	db *database.Postgres
}

// NewBlacklistRepository creates a new blacklist repository
func NewBlacklistRepository(db *database.Postgres) BlacklistRepository {
	return &blacklistRepository{db: db}
}

// Add records a spent token. The token hash is the primary key, so a second
// Add of the same token fails with ErrDuplicateToken.
func (r *blacklistRepository) Add(ctx context.Context, token *domain.BlacklistedToken) error {
	query := `
		INSERT INTO blacklisted_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return fmt.Errorf("failed to blacklist token: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

// Exists reports whether the token hash is blacklisted
func (r *blacklistRepository) Exists(ctx context.Context, tokenHash string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token_hash = $1)`

	var exists bool
	if err := r.db.DB.QueryRowContext(ctx, query, tokenHash).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists, nil
}

// DeleteExpired removes entries whose token has expired on its own
func (r *blacklistRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM blacklisted_tokens WHERE expires_at < $1`

	result, err := r.db.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
