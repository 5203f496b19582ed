package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"
)

// AuthMiddleware validates the bearer access token and adds user info to context
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthenticated(c)
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			unauthenticated(c)
			return
		}

		claims, err := authService.ValidateAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(claimsKey, claims)

		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "Unauthenticated",
		Message: "Unauthenticated",
	})
}

// currentUserID returns the caller set by AuthMiddleware
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
