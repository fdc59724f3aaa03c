package middleware

import (
	"net/http"

	"finance_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a generic 500 response
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log := logger.Get()
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
			}
		}()
		c.Next()
	}
}
