package service

import (
	"context"
	"errors"
	"strings"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/repository"
)

// commentService implements CommentService interface
type commentService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new comment service
func NewCommentService(repos *repository.Repositories) CommentService {
	return &commentService{
		userRepo:    repos.User,
		postRepo:    repos.Post,
		commentRepo: repos.Comment,
	}
}

func (s *commentService) Create(ctx context.Context, userID string, req *dto.CommentRequest) (*CommentDetails, error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	post, err := findPost(ctx, s.postRepo, req.PostID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(req.Comment)
	if body == "" {
		return nil, newError(KindValidation, "ValidationError", "Comment must not be empty")
	}

	comment := &domain.Comment{PostID: post.ID, UserID: user.ID, Body: body}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, internalError("create comment", err)
	}

	return &CommentDetails{Comment: comment, Author: user}, nil
}

func (s *commentService) Get(ctx context.Context, commentID string) (*CommentDetails, error) {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	author, err := findUser(ctx, s.userRepo, comment.UserID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	return &CommentDetails{Comment: comment, Author: author}, nil
}

// Update replaces the body of a comment the caller wrote and marks it edited
func (s *commentService) Update(ctx context.Context, userID, commentID, body string) (*CommentDetails, error) {
	user, comment, err := s.owned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, newError(KindValidation, "ValidationError", "Comment must not be empty")
	}

	comment.Body = body
	comment.Edited = true
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, internalError("update comment", err)
	}

	return &CommentDetails{Comment: comment, Author: user}, nil
}

// Delete removes a comment the caller wrote
func (s *commentService) Delete(ctx context.Context, userID, commentID string) (*CommentDetails, error) {
	user, comment, err := s.owned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errCommentGone
		}
		return nil, internalError("delete comment", err)
	}

	return &CommentDetails{Comment: comment, Author: user}, nil
}

// ListByPost returns one page of a post's comments, newest first
func (s *commentService) ListByPost(ctx context.Context, postID string, page int) (domain.Page[CommentDetails], error) {
	post, err := findPost(ctx, s.postRepo, postID)
	if err != nil {
		return domain.Page[CommentDetails]{}, err
	}

	page = normalizePage(page)
	comments, total, err := s.commentRepo.ListByPost(ctx, post.ID, domain.PageOffset(page), domain.PageSize)
	if err != nil {
		return domain.Page[CommentDetails]{}, internalError("list comments", err)
	}

	authors := newAuthorCache(s.userRepo)
	docs := make([]CommentDetails, 0, len(comments))
	for _, comment := range comments {
		author, err := authors.get(ctx, comment.UserID)
		if err != nil {
			return domain.Page[CommentDetails]{}, err
		}
		docs = append(docs, CommentDetails{Comment: comment, Author: author})
	}

	return domain.NewPage(docs, total, page), nil
}

func (s *commentService) owned(ctx context.Context, userID, commentID string) (*domain.User, *domain.Comment, error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, nil, err
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}

	if comment.UserID != user.ID {
		return nil, nil, errNotOwner
	}

	return user, comment, nil
}

func (s *commentService) findComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	return findComment(ctx, s.commentRepo, commentID)
}

func findComment(ctx context.Context, comments repository.CommentRepository, commentID string) (*domain.Comment, error) {
	comment, err := comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errCommentGone
		}
		return nil, internalError("get comment", err)
	}
	return comment, nil
}

// authorCache resolves user ids once per listing
type authorCache struct {
	users repository.UserRepository
	seen  map[string]*domain.User
}

func newAuthorCache(users repository.UserRepository) *authorCache {
	return &authorCache{users: users, seen: make(map[string]*domain.User)}
}

func (c *authorCache) get(ctx context.Context, userID string) (*domain.User, error) {
	if user, ok := c.seen[userID]; ok {
		return user, nil
	}
	user, err := findUser(ctx, c.users, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}
	c.seen[userID] = user
	return user, nil
}
