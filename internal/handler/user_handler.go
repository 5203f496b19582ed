package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

// UserHandler serves user lookups, the follow graph and search
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{User: user.Summary()})
}

func (h *UserHandler) Followers(c *gin.Context) {
	users, err := h.userService.Followers(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowersResponse{Followers: summaries(users)})
}

func (h *UserHandler) Following(c *gin.Context) {
	users, err := h.userService.Following(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowingResponse{Following: summaries(users)})
}

// Posts returns ?page= of a user's posts
func (h *UserHandler) Posts(c *gin.Context) {
	page, err := h.userService.Posts(c.Request.Context(), c.Param("userId"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapPage(page, postResponse))
}

func (h *UserHandler) Follow(c *gin.Context) {
	profile, err := h.userService.Follow(c.Request.Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse(profile))
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	user, err := h.userService.Unfollow(c.Request.Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{Message: "User unfollowed", User: user.Summary()})
}

// Search matches ?q= against usernames and full names
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UsersResponse{Users: summaries(users)})
}
