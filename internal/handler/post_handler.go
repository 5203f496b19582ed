package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

const maxPostFiles = 10

// PostHandler serves posts
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create stores a post from the multipart files "posts" and the optional field "caption"
func (h *PostHandler) Create(c *gin.Context) {
	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File["posts"]
	}
	if len(headers) > maxPostFiles {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "ValidationError",
			Message: "Too many files",
		})
		return
	}

	files := make([]service.FileUpload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			respondBindError(c, err)
			return
		}
		defer file.Close()

		files = append(files, service.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		})
	}

	var caption *string
	if value, ok := c.GetPostForm("caption"); ok {
		caption = &value
	}

	details, err := h.postService.Create(c.Request.Context(), currentUserID(c), caption, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, postResponse(*details))
}

func (h *PostHandler) Get(c *gin.Context) {
	details, err := h.postService.Get(c.Request.Context(), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, postResponse(*details))
}

// Update replaces the caption of the caller's post
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.EditPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	details, err := h.postService.Update(c.Request.Context(), currentUserID(c), c.Param("postId"), req.Caption)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, postResponse(*details))
}

func (h *PostHandler) Delete(c *gin.Context) {
	details, err := h.postService.Delete(c.Request.Context(), currentUserID(c), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, postResponse(*details))
}
