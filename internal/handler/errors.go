package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/service"
)

var kindStatus = map[service.Kind]int{
	service.KindInternal:        http.StatusInternalServerError,
	service.KindValidation:      http.StatusUnprocessableEntity,
	service.KindConflict:        http.StatusConflict,
	service.KindUnauthorized:    http.StatusUnauthorized,
	service.KindInvalid:         http.StatusUnauthorized,
	service.KindTokenInvalid:    http.StatusUnauthorized,
	service.KindForbidden:       http.StatusForbidden,
	service.KindAlreadyUsed:     http.StatusForbidden,
	service.KindAlreadyVerified: http.StatusForbidden,
	service.KindUploadFailed:    http.StatusForbidden,
	service.KindNotFound:        http.StatusNotFound,
	service.KindWrongEntry:      http.StatusConflict,
}

// StatusOf returns the HTTP status a service error kind maps to
func StatusOf(kind service.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. The error is attached to the
// context so the request logger records the internal cause.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var serviceErr *service.Error
	if !errors.As(err, &serviceErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal",
			Message: "An error has occured",
		})
		return
	}

	c.AbortWithStatusJSON(StatusOf(serviceErr.Kind), dto.ErrorResponse{
		Error:   serviceErr.Name,
		Message: serviceErr.Message,
	})
}

// respondBindError reports a request body or query that failed binding
func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:   "ValidationError",
		Message: err.Error(),
	})
}
