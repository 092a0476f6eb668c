package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studiohub/internal/models"
	"studiohub/internal/roles"
)

// RequirePermission returns a Gin middleware that allows the request only if
// the authenticated user's role grants the given permission. It must run
// after AuthMiddleware, which stores the role claim in the context.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		role, ok := value.(models.Role)
		if !ok || !roles.Has(role, permission) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
