package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

// AuthHandler handles authentication and profile requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup handles user registration
// @Summary Register a new user
// @Description Creates an unverified user and mails a verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup request"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UserResponse{
		Message: "User created, check your email for the verification code",
		User:    user.Summary(),
	})
}

// Signin handles login by email or username
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SigninRequest true "Signin request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(result.User, result.Tokens))
}

// Verify consumes the mailed code. With ?login=true a token pair is returned.
// @Summary Verify email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.VerifyRequest true "Verify request"
// @Param login query bool false "Issue tokens"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/verify [put]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	login, _ := strconv.ParseBool(c.Query("login"))

	result, err := h.authService.Verify(c.Request.Context(), &req, login)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Tokens != nil {
		c.JSON(http.StatusOK, dto.NewAuthResponse(result.User, result.Tokens))
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		Message: "User verified",
		User:    result.User.Summary(),
	})
}

// ResendVerificationCode mails a fresh code
// @Summary Resend verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationCodeRequest true "Resend request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/resend-verification-code [put]
func (h *AuthHandler) ResendVerificationCode(c *gin.Context) {
	var req dto.ResendVerificationCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.authService.ResendVerificationCode(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Verification code sent"})
}

// ResetPassword sets a new password using the mailed code
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/reset-password [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password reset successfully"})
}

// Refresh exchanges a refresh token for a new pair
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh request"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.RefreshUserTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(result.User, result.Tokens))
}

// Me returns the caller with followers and following
// @Summary Get current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.GetLoggedInUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse(profile))
}

// MyFollowers lists the caller's followers
func (h *AuthHandler) MyFollowers(c *gin.Context) {
	profile, err := h.authService.GetLoggedInUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowersResponse{Followers: summaries(profile.Followers)})
}

// MyFollowing lists the users the caller follows
func (h *AuthHandler) MyFollowing(c *gin.Context) {
	profile, err := h.authService.GetLoggedInUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FollowingResponse{Following: summaries(profile.Following)})
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change password request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/me/change-password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.authService.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password changed successfully"})
}

// EditProfile replaces the caller's profile fields
func (h *AuthHandler) EditProfile(c *gin.Context) {
	var req dto.EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.EditProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{Message: "Profile updated", User: user.Summary()})
}

// UpdateProfilePicture uploads the multipart file "profilePicture"
func (h *AuthHandler) UpdateProfilePicture(c *gin.Context) {
	var upload *service.FileUpload

	header, err := c.FormFile("profilePicture")
	switch {
	case err == nil:
		file, err := header.Open()
		if err != nil {
			respondBindError(c, err)
			return
		}
		defer file.Close()

		upload = &service.FileUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		respondBindError(c, err)
		return
	}

	user, err := h.authService.UpdateProfilePicture(c.Request.Context(), currentUserID(c), upload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{Message: "Profile picture updated", User: user.Summary()})
}

// RemoveProfilePicture clears the caller's profile picture
func (h *AuthHandler) RemoveProfilePicture(c *gin.Context) {
	user, err := h.authService.RemoveProfilePicture(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{Message: "Profile picture removed", User: user.Summary()})
}
