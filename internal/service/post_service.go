package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentUploads = 4

// postService implements PostService interface
type postService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	storage  ObjectStorage
	logger   *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(repos *repository.Repositories, storage ObjectStorage, logger *zap.Logger) PostService {
	return &postService{
		userRepo: repos.User,
		postRepo: repos.Post,
		storage:  storage,
		logger:   logger,
	}
}

// Create uploads the files and stores a post referencing them
func (s *postService) Create(ctx context.Context, userID string, caption *string, files []FileUpload) (*PostDetails, error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, newError(KindConflict, "Not Provided", "No posts provided")
	}

	media, keys, err := s.upload(ctx, user.ID, files)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID:  user.ID,
		Caption: trimCaption(caption),
		Media:   media,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discard(ctx, userID, keys)
		return nil, internalError("create post", err)
	}

	return &PostDetails{Post: post, Author: user}, nil
}

// upload stores files concurrently and returns their URLs and keys in input
// order. On failure the files that did upload are removed again.
func (s *postService) upload(ctx context.Context, userID string, files []FileUpload) ([]string, []string, error) {
	urls := make([]string, len(files))
	keys := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, file := range files {
		g.Go(func() error {
			contentType := file.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			key := path.Join("posts", userID, uuid.New().String()+path.Ext(file.Filename))
			url, err := s.storage.Upload(gctx, key, file.Body, contentType)
			if err != nil {
				return err
			}
			urls[i] = url
			keys[i] = key
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("post upload failed", zap.String("user_id", userID), zap.Error(err))
		s.discard(ctx, userID, keys)
		return nil, nil, &Error{Kind: KindUploadFailed, Name: "Upload Failed", Message: "Could not upload file to S3", Err: err}
	}

	return urls, keys, nil
}

// discard deletes uploaded objects that no post references. Objects that
// cannot be deleted are logged with their keys.
func (s *postService) discard(ctx context.Context, userID string, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("orphaned post media",
				zap.String("user_id", userID),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

func (s *postService) Get(ctx context.Context, postID string) (*PostDetails, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	author, err := findUser(ctx, s.userRepo, post.UserID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	return &PostDetails{Post: post, Author: author}, nil
}

// Update replaces the caption of a post the caller owns
func (s *postService) Update(ctx context.Context, userID, postID string, caption *string) (*PostDetails, error) {
	user, post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	post.Caption = trimCaption(caption)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, internalError("update post", err)
	}

	return &PostDetails{Post: post, Author: user}, nil
}

// Delete removes a post the caller owns
func (s *postService) Delete(ctx context.Context, userID, postID string) (*PostDetails, error) {
	user, post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errPostNotFound
		}
		return nil, internalError("delete post", err)
	}

	return &PostDetails{Post: post, Author: user}, nil
}

func (s *postService) owned(ctx context.Context, userID, postID string) (*domain.User, *domain.Post, error) {
	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, nil, err
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	if post.UserID != user.ID {
		return nil, nil, errNotOwner
	}

	return user, post, nil
}

func (s *postService) findPost(ctx context.Context, postID string) (*domain.Post, error) {
	return findPost(ctx, s.postRepo, postID)
}

func findPost(ctx context.Context, posts repository.PostRepository, postID string) (*domain.Post, error) {
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errPostNotFound
		}
		return nil, internalError("get post", err)
	}
	return post, nil
}

func trimCaption(caption *string) *string {
	if caption == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
