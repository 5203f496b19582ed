package service

import (
	"context"
	"errors"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/repository"
)

// AuthResult is a user with an optional token pair
type AuthResult struct {
	User   *domain.User
	Tokens *domain.TokenPair
}

// Profile is a user with the follow graph around it
type Profile struct {
	User      *domain.User
	Followers []*domain.User
	Following []*domain.User
}

// PostDetails is a post with its author
type PostDetails struct {
	Post   *domain.Post
	Author *domain.User
}

// CommentDetails is a comment with its author
type CommentDetails struct {
	Comment *domain.Comment
	Author  *domain.User
}

// LikeDetails is a like with the user who left it
type LikeDetails struct {
	Like *domain.Like
	User *domain.User
}

// issueTokens mints a token pair for user
func (s *authService) issueTokens(user *domain.User) (*AuthResult, error) {
	tokens, err := s.tokenManager.GeneratePair(domain.SubjectOf(user))
	if err != nil {
		return nil, internalError("generate tokens", err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// loadProfile reads the follow graph of user
func loadProfile(ctx context.Context, follows repository.FollowRepository, user *domain.User) (*Profile, error) {
	followers, err := follows.Followers(ctx, user.ID)
	if err != nil {
		return nil, internalError("get followers", err)
	}

	following, err := follows.Following(ctx, user.ID)
	if err != nil {
		return nil, internalError("get following", err)
	}

	return &Profile{User: user, Followers: followers, Following: following}, nil
}

// findUser maps a missing user to notFound and anything else to Internal
func findUser(ctx context.Context, users repository.UserRepository, userID string, notFound *Error) (*domain.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, internalError("get user", err)
	}
	return user, nil
}

// userExists reports whether a user lookup found a record
func userExists(_ *domain.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}
