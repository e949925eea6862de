// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with. StatusCode mirrors
// the HTTP status so API consumers can rely on the body alone.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Data       interface{}       `json:"data,omitempty"`
	Errors     []ValidationError `json:"errors,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

func BadRequestResponse(c *gin.Context, message string, errors []ValidationError) {
	c.JSON(http.StatusBadRequest, Response{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Errors:     errors,
	})
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	BadRequestResponse(c, "Invalid input", errors)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	c.JSON(http.StatusUnauthorized, Response{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	})
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	c.JSON(http.StatusForbidden, Response{
		StatusCode: http.StatusForbidden,
		Message:    message,
	})
}

func NotFoundResponse(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		StatusCode: http.StatusNotFound,
		Message:    message,
	})
}

func InternalErrorResponse(c *gin.Context, message string, errors []ValidationError) {
	if message == "" {
		message = "Unexpected error"
	}
	c.JSON(http.StatusInternalServerError, Response{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
		Errors:     errors,
	})
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}

func GetUserConfirmedFromContext(c *gin.Context) bool {
	if confirmed, exists := c.Get("user_confirmed"); exists {
		if confirmedBool, ok := confirmed.(bool); ok {
			return confirmedBool
		}
	}
	return false
}
