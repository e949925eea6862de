// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blanjago/blanja-backend/internal/models"
	"github.com/blanjago/blanja-backend/internal/utils"
)

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, utils.Response{
				StatusCode: http.StatusUnauthorized,
				Message:    "Authentication required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, utils.Response{
				StatusCode: http.StatusUnauthorized,
				Message:    "Invalid authorization header",
			})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.Response{
				StatusCode: http.StatusUnauthorized,
				Message:    "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("user_role", claims.Role)
		c.Set("user_confirmed", claims.Confirmed)
		c.Next()
	}
}

// ConfirmedUserRequired gates routes that only verified accounts may use.
// Must run after AuthRequired.
func ConfirmedUserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !utils.GetUserConfirmedFromContext(c) {
			c.JSON(http.StatusForbidden, utils.Response{
				StatusCode: http.StatusForbidden,
				Message:    "Account confirmation required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SellerRequired gates seller-only routes. Must run after AuthRequired.
func SellerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := utils.GetUserRoleFromContext(c)
		if !exists || role != string(models.UserRoleSeller) {
			c.JSON(http.StatusForbidden, utils.Response{
				StatusCode: http.StatusForbidden,
				Message:    "Seller access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
