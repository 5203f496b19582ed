package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

// CommentHandler serves comments
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	details, err := h.commentService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, commentResponse(*details))
}

// List returns ?page= of the comments on ?post=
func (h *CommentHandler) List(c *gin.Context) {
	page, err := h.commentService.ListByPost(c.Request.Context(), c.Query("post"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPage(page, commentResponse))
}

func (h *CommentHandler) Get(c *gin.Context) {
	details, err := h.commentService.Get(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, commentResponse(*details))
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	details, err := h.commentService.Update(c.Request.Context(), currentUserID(c), c.Param("commentId"), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, commentResponse(*details))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	details, err := h.commentService.Delete(c.Request.Context(), currentUserID(c), c.Param("commentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, commentResponse(*details))
}
