package middleware

import (
	"net/http"
	"slices"

	"finance_tracker/internal/metrics"
	"finance_tracker/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles.
// It must run after JWTAuthMiddleware.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := AuthUser(c)
		if !ok {
			reject(c, http.StatusUnauthorized, metrics.ReasonMissingToken, msgTokenMissing)
			return
		}

		if !slices.Contains(allowedRoles, user.Role) {
			reject(c, http.StatusForbidden, metrics.ReasonForbidden, "admin access required")
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
