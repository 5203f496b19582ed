package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

func summaries(users []*domain.User) []domain.UserSummary {
	out := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}

func profileResponse(p *service.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		User:      p.User.Summary(),
		Verified:  p.User.Verified,
		Followers: summaries(p.Followers),
		Following: summaries(p.Following),
	}
}

func postResponse(d service.PostDetails) dto.PostResponse {
	return dto.PostResponse{
		PostID:    d.Post.ID,
		Media:     d.Post.Media,
		Caption:   d.Post.Caption,
		User:      d.Author.Summary(),
		CreatedAt: d.Post.CreatedAt,
		UpdatedAt: d.Post.UpdatedAt,
	}
}

func commentResponse(d service.CommentDetails) dto.CommentResponse {
	return dto.CommentResponse{
		CommentID: d.Comment.ID,
		PostID:    d.Comment.PostID,
		Comment:   d.Comment.Body,
		Edited:    d.Comment.Edited,
		User:      d.Author.Summary(),
		CreatedAt: d.Comment.CreatedAt,
		UpdatedAt: d.Comment.UpdatedAt,
	}
}

func likeResponse(d service.LikeDetails) dto.LikeResponse {
	return dto.LikeResponse{
		LikeID:    d.Like.ID,
		PostID:    d.Like.PostID,
		CommentID: d.Like.CommentID,
		User:      d.User.Summary(),
		CreatedAt: d.Like.CreatedAt,
	}
}

// mapPage converts the documents of a page, keeping its counters
func mapPage[T, U any](p domain.Page[T], convert func(T) U) domain.Page[U] {
	docs := make([]U, 0, len(p.Docs))
	for _, doc := range p.Docs {
		docs = append(docs, convert(doc))
	}
	return domain.Page[U]{
		Docs:        docs,
		TotalDocs:   p.TotalDocs,
		Page:        p.Page,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
	}
}

// pageQuery reads ?page=, defaulting to the first page
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return min(page, domain.MaxPage)
}
