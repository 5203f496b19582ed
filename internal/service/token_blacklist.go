package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/repository"
	"github.com/prperemyshlev/social-service/pkg/database"
	"go.uber.org/zap"
)

const blacklistKeyPrefix = "blacklist:token:"

// TokenBlacklistService records spent refresh tokens. Postgres is the system
// of record; Redis caches positive lookups until the token would have expired
// anyway.
type TokenBlacklistService struct {
	repo   repository.BlacklistRepository
	redis  *database.Redis
	logger *zap.Logger
	now    func() time.Time
}

// NewTokenBlacklistService creates a new token blacklist service. redis may be nil.
func NewTokenBlacklistService(repo repository.BlacklistRepository, redis *database.Redis, logger *zap.Logger) *TokenBlacklistService {
	return &TokenBlacklistService{
		repo:   repo,
		redis:  redis,
		logger: logger,
		now:    time.Now,
	}
}

// Add blacklists token. It fails with repository.ErrDuplicateToken when the
// token was already spent, so of two concurrent refreshes only one succeeds.
func (s *TokenBlacklistService) Add(ctx context.Context, token, userID string, expiresAt time.Time) error {
	hash := hashToken(token)

	err := s.repo.Add(ctx, &domain.BlacklistedToken{
		TokenHash: hash,
		UserID:    userID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	s.cache(ctx, hash, expiresAt)
	return nil
}

// Contains checks if a token is blacklisted
func (s *TokenBlacklistService) Contains(ctx context.Context, token string) (bool, error) {
	hash := hashToken(token)

	if s.redis != nil {
		exists, err := s.redis.Client.Exists(ctx, blacklistKeyPrefix+hash).Result()
		if err == nil && exists > 0 {
			return true, nil
		}
		if err != nil {
			s.logger.Warn("blacklist cache lookup failed", zap.Error(err))
		}
	}

	found, err := s.repo.Exists(ctx, hash)
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return found, nil
}

func (s *TokenBlacklistService) cache(ctx context.Context, hash string, expiresAt time.Time) {
	if s.redis == nil {
		return
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}

	if err := s.redis.Client.Set(ctx, blacklistKeyPrefix+hash, "1", ttl).Err(); err != nil {
		s.logger.Warn("failed to cache blacklisted token", zap.Error(err))
	}
}

// PruneExpired drops entries for tokens past their own expiry. Such tokens
// are rejected by the verifier before the blacklist is consulted for them.
func (s *TokenBlacklistService) PruneExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("pruned expired blacklist entries", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// RunPruner calls PruneExpired every interval until ctx is cancelled
func (s *TokenBlacklistService) RunPruner(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.PruneExpired(ctx); err != nil {
				s.logger.Error("failed to prune token blacklist", zap.Error(err))
			}
		}
	}
}

// hashToken hashes a token using SHA256
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
