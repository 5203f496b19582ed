package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/repository"
	"go.uber.org/zap"
)

const searchLimit = 25

// userService implements UserService interface
type userService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(repos *repository.Repositories, logger *zap.Logger) UserService {
	return &userService{
		userRepo:   repos.User,
		followRepo: repos.Follow,
		postRepo:   repos.Post,
		logger:     logger,
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return findUser(ctx, s.userRepo, userID, errUserNotFound)
}

func (s *userService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := findUser(ctx, s.userRepo, userID, errUserNotFound); err != nil {
		return nil, err
	}

	followers, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, internalError("get followers", err)
	}
	return followers, nil
}

func (s *userService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := findUser(ctx, s.userRepo, userID, errUserNotFound); err != nil {
		return nil, err
	}

	following, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, internalError("get following", err)
	}
	return following, nil
}

// Follow adds the edge userID -> targetID and returns the caller's updated profile
func (s *userService) Follow(ctx context.Context, userID, targetID string) (*Profile, error) {
	user, target, err := s.pair(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Follow(ctx, user.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicateFollow) {
			return nil, newError(KindForbidden, "Already Followed", "User already followed")
		}
		return nil, internalError("follow user", err)
	}

	return loadProfile(ctx, s.followRepo, user)
}

// Unfollow removes the edge userID -> targetID
func (s *userService) Unfollow(ctx context.Context, userID, targetID string) (*domain.User, error) {
	user, target, err := s.pair(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Unfollow(ctx, user.ID, target.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindForbidden, "Not Followed", "User not followed")
		}
		return nil, internalError("unfollow user", err)
	}

	return user, nil
}

// pair loads both ends of a follow edge and rejects self edges
func (s *userService) pair(ctx context.Context, userID, targetID string) (*domain.User, *domain.User, error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, nil, err
	}

	target, err := findUser(ctx, s.userRepo, targetID, errUserNotFound)
	if err != nil {
		return nil, nil, err
	}

	if user.ID == target.ID {
		return nil, nil, newError(KindForbidden, "Conflict", "An error has occured")
	}

	return user, target, nil
}

// Posts returns one page of a user's posts, most recently updated first
func (s *userService) Posts(ctx context.Context, userID string, page int) (domain.Page[PostDetails], error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return domain.Page[PostDetails]{}, err
	}

	page = normalizePage(page)
	posts, total, err := s.postRepo.ListByUser(ctx, user.ID, domain.PageOffset(page), domain.PageSize)
	if err != nil {
		return domain.Page[PostDetails]{}, internalError("list posts", err)
	}

	docs := make([]PostDetails, 0, len(posts))
	for _, post := range posts {
		docs = append(docs, PostDetails{Post: post, Author: user})
	}

	return domain.NewPage(docs, total, page), nil
}

// Search matches username or full name case-insensitively. The query is
// matched literally; the caller is never part of the result.
func (s *userService) Search(ctx context.Context, callerID, query string) ([]*domain.User, error) {
	query = strings.TrimSpace(strings.ReplaceAll(query, "+", " "))
	if query == "" {
		return []*domain.User{}, nil
	}

	users, err := s.userRepo.Search(ctx, regexp.QuoteMeta(query), callerID, searchLimit)
	if err != nil {
		s.logger.Error("search failed", zap.String("query", query), zap.Error(err))
		return nil, internalError("search users", err)
	}

	return users, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
