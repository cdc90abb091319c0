package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meal-attendance-api/internal/constants"
	"github.com/yukikurage/meal-attendance-api/internal/database"
	apierrors "github.com/yukikurage/meal-attendance-api/internal/errors"
	"github.com/yukikurage/meal-attendance-api/internal/models"
	"github.com/yukikurage/meal-attendance-api/internal/utils"
)

// RequireAuth validates the Bearer token and resolves its subject to a user.
// The user's id, username and role are stored in the request context.
func RequireAuth(tokens *utils.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apierrors.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		username, err := tokens.ValidateToken(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().Where("username = ?", username).First(&user).Error; err != nil {
			apierrors.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		// Token subjects are usernames; approval may have been revoked since issue.
		if !user.Approved {
			apierrors.Unauthorized(c, "Account not approved")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUsername, user.Username)
		c.Set(constants.ContextKeyRole, user.Role)
		c.Next()
	}
}

// RequireAdmin allows only users with the ADMIN role. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetRole(c)
		if !exists || role != models.RoleAdmin {
			apierrors.Forbidden(c, "Administrator access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}

// GetUsername retrieves the current username from context
func GetUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUsername)
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}

// GetRole retrieves the current user role from context
func GetRole(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get(constants.ContextKeyRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.UserRole)
	return role, ok
}
