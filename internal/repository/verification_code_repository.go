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

// verificationCodeRepository implements VerificationCodeRepository interface
type verificationCodeRepository struct {
	db *database.Postgres
}

// NewVerificationCodeRepository creates a new verification code repository
func NewVerificationCodeRepository(db *database.Postgres) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

// Create stores the user's verification code
func (r *verificationCodeRepository) Create(ctx context.Context, code *domain.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, code_hash, already_used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if code.ID == "" {
		code.ID = uuid.New().String()
	}

	now := time.Now()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	code.UpdatedAt = now

	_, err := r.db.DB.ExecContext(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.AlreadyUsed,
		code.CreatedAt,
		code.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}

	return nil
}

// GetByUserID retrieves the verification code of a user
func (r *verificationCodeRepository) GetByUserID(ctx context.Context, userID string) (*domain.VerificationCode, error) {
	query := `
		SELECT id, user_id, code_hash, already_used, created_at, updated_at
		FROM verification_codes
		WHERE user_id = $1
	`

	code := &domain.VerificationCode{}
	err := r.db.DB.QueryRowContext(ctx, query, userID).Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.AlreadyUsed,
		&code.CreatedAt,
		&code.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("verification code for user %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}

	return code, nil
}

// Replace overwrites the stored hash and resets the used flag
func (r *verificationCodeRepository) Replace(ctx context.Context, userID, codeHash string) error {
	query := `
		UPDATE verification_codes
		SET code_hash = $2, already_used = FALSE, updated_at = $3
		WHERE user_id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, codeHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to replace verification code: %w", err)
	}

	return expectOneRow(result, fmt.Errorf("verification code for user %s not found: %w", userID, ErrNotFound))
}

// Consume flips already_used from false to true. The conditional update makes
// concurrent consumers of the same code race on a single row: only one wins.
func (r *verificationCodeRepository) Consume(ctx context.Context, userID string) error {
	query := `
		UPDATE verification_codes
		SET already_used = TRUE, updated_at = $2
		WHERE user_id = $1 AND already_used = FALSE
	`

	result, err := r.db.DB.ExecContext(ctx, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}

	return expectOneRow(result, fmt.Errorf("verification code for user %s: %w", userID, ErrAlreadyUsed))
}

// expectOneRow returns notAffected when the statement touched no rows
func expectOneRow(result sql.Result, notAffected error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notAffected
	}
	return nil
}
