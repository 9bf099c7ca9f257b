package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengly4433/hotel-system/internal/apperror"
	"gorm.io/gorm"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return apperror.ErrInvalidRequest
}

func mapError(err error) (int, errorPayload) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Status, errorPayload{Code: appErr.Code, Message: appErr.Message}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, errorPayload{Code: apperror.ErrNotFound.Code, Message: apperror.ErrNotFound.Message}
	}
	return http.StatusInternalServerError, errorPayload{Code: "INTERNAL_ERROR", Message: "internal server error"}
}

func classifyErrorForLog(err error) (string, int) {
	status, payload := mapError(err)
	return payload.Code, status
}
