package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/metrics"
	"finance_tracker/internal/model"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthUserKey holds the resolved *model.User for the rest of the chain
const AuthUserKey = "authUser"

const (
	msgTokenMissing    = "token is missing"
	msgMalformedHeader = "invalid authorization header format"
	msgUserNotFound    = "user not found"
	msgInternal        = "internal server error"
)

// UserFinder resolves the user named by a token
type UserFinder interface {
	FindByID(ctx context.Context, id int) (*model.User, error)
}

func reject(c *gin.Context, status int, reason, message string) {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// JWTAuthMiddleware creates a middleware for JWT authentication.
// The user is loaded from the store on every request so a deleted account stops working at once.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, http.StatusUnauthorized, metrics.ReasonMissingToken, msgTokenMissing)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			reject(c, http.StatusUnauthorized, metrics.ReasonMalformedHeader, msgMalformedHeader)
			return
		}
		if parts[1] == "" {
			reject(c, http.StatusUnauthorized, metrics.ReasonMissingToken, msgTokenMissing)
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				reject(c, http.StatusUnauthorized, metrics.ReasonExpiredToken, utils.ErrTokenExpired.Error())
				return
			}
			reject(c, http.StatusUnauthorized, metrics.ReasonInvalidToken, utils.ErrTokenMalformed.Error())
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			log := logger.Get()
			log.Error().Err(err).Int("user_id", claims.UserID).Msg("failed to load token user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
			return
		}
		if user == nil {
			reject(c, http.StatusUnauthorized, metrics.ReasonUserNotFound, msgUserNotFound)
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// AuthUser returns the user stored by JWTAuthMiddleware
func AuthUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok && user != nil
}
