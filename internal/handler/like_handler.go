package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

// LikeHandler serves likes of posts and comments
type LikeHandler struct {
	likeService service.LikeService
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(likeService service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

func (h *LikeHandler) Like(c *gin.Context) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	details, err := h.likeService.Like(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, likeResponse(*details))
}

func (h *LikeHandler) Unlike(c *gin.Context) {
	var req dto.UnlikeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	like, err := h.likeService.Unlike(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like removed", "likeId": like.ID})
}

// List returns ?page= of the likes on ?post= or ?comment=
func (h *LikeHandler) List(c *gin.Context) {
	page, err := h.likeService.List(c.Request.Context(), c.Query("post"), c.Query("comment"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPage(page, likeResponse))
}
