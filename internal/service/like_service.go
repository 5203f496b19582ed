package service

import (
	"context"
	"errors"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/repository"
)

var (
	errBothTargets = newError(KindForbidden, "Forbidden", "Cannot like a comment and post at the same time")
	errNoTarget    = newError(KindNotFound, "Not Found", "No post or comment found")
	errLikeMissing = newError(KindNotFound, "Not Found", "Like not found")
)

// likeService implements LikeService interface
type likeService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
}

// NewLikeService creates a new like service
func NewLikeService(repos *repository.Repositories) LikeService {
	return &likeService{
		userRepo:    repos.User,
		postRepo:    repos.Post,
		commentRepo: repos.Comment,
		likeRepo:    repos.Like,
	}
}

// target resolves a request naming exactly one existing post or comment
func (s *likeService) target(ctx context.Context, postID, commentID string) (repository.LikeTarget, error) {
	switch {
	case postID != "" && commentID != "":
		return repository.LikeTarget{}, errBothTargets
	case postID != "":
		post, err := findPost(ctx, s.postRepo, postID)
		if err != nil {
			return repository.LikeTarget{}, err
		}
		return repository.LikeTarget{PostID: post.ID}, nil
	case commentID != "":
		comment, err := findComment(ctx, s.commentRepo, commentID)
		if err != nil {
			return repository.LikeTarget{}, err
		}
		return repository.LikeTarget{CommentID: comment.ID}, nil
	default:
		return repository.LikeTarget{}, errNoTarget
	}
}

// Like records the caller's like of a post or a comment
func (s *likeService) Like(ctx context.Context, userID string, req *dto.LikeRequest) (*LikeDetails, error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	target, err := s.target(ctx, req.PostID, req.CommentID)
	if err != nil {
		return nil, err
	}

	like := &domain.Like{UserID: user.ID}
	if target.PostID != "" {
		like.PostID = &target.PostID
	} else {
		like.CommentID = &target.CommentID
	}

	if err := s.likeRepo.Create(ctx, like); err != nil {
		if errors.Is(err, repository.ErrDuplicateLike) {
			return nil, newError(KindConflict, "Already Liked", "Already liked")
		}
		return nil, internalError("create like", err)
	}

	return &LikeDetails{Like: like, User: user}, nil
}

// Unlike removes a like by its id, or the caller's like of a post or comment
func (s *likeService) Unlike(ctx context.Context, userID string, req *dto.UnlikeRequest) (*domain.Like, error) {
	if req.LikeID == "" && req.PostID == "" && req.CommentID == "" {
		return nil, newError(KindNotFound, "Not Found", "No post or comment or like id found")
	}

	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	var like *domain.Like
	if req.LikeID != "" {
		like, err = s.likeRepo.GetByID(ctx, req.LikeID)
	} else {
		target, terr := s.target(ctx, req.PostID, req.CommentID)
		if terr != nil {
			return nil, terr
		}
		like, err = s.likeRepo.GetByUserAndTarget(ctx, user.ID, target)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errLikeMissing
		}
		return nil, internalError("get like", err)
	}

	if like.UserID != user.ID {
		return nil, errNotOwner
	}

	if err := s.likeRepo.Delete(ctx, like.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errLikeMissing
		}
		return nil, internalError("delete like", err)
	}

	return like, nil
}

// List returns one page of likes on a post or a comment, newest first
func (s *likeService) List(ctx context.Context, postID, commentID string, page int) (domain.Page[LikeDetails], error) {
	target, err := s.target(ctx, postID, commentID)
	if err != nil {
		return domain.Page[LikeDetails]{}, err
	}

	page = normalizePage(page)
	likes, total, err := s.likeRepo.ListByTarget(ctx, target, domain.PageOffset(page), domain.PageSize)
	if err != nil {
		return domain.Page[LikeDetails]{}, internalError("list likes", err)
	}

	users := newAuthorCache(s.userRepo)
	docs := make([]LikeDetails, 0, len(likes))
	for _, like := range likes {
		user, err := users.get(ctx, like.UserID)
		if err != nil {
			return domain.Page[LikeDetails]{}, err
		}
		docs = append(docs, LikeDetails{Like: like, User: user})
	}

	return domain.NewPage(docs, total, page), nil
}
