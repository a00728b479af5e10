package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutor-service/internal/utils"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "user_role"

	AdminRole = "admin"
)

// RequireAuth validates the bearer token and stores the caller's identity
// on the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			utils.UnauthorizedResponse(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID := claims.UserID
		// Some issuers serialize the id as ObjectID("..."); unwrap it.
		if strings.HasPrefix(userID, "ObjectID(\"") && strings.HasSuffix(userID, "\")") {
			userID = userID[10 : len(userID)-2]
		}

		c.Set(UserIDKey, userID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates catalog and content mutations.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != AdminRole {
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
