package handler

import (
	"errors"
	"net/http"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal server error"

// statusFor maps service errors to HTTP status codes; 0 means unexpected
func statusFor(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrSelfDelete):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrExpenseNotFound):
		return http.StatusNotFound
	}
	return 0
}

// respondError writes {"message": ...} for err. Unexpected errors are logged
// and hidden behind a generic 500.
func respondError(c *gin.Context, err error, action string) {
	if status := statusFor(err); status != 0 {
		msg := err.Error()
		// Keep the sentinel text, drop any wrapped detail
		if errors.Is(err, service.ErrInvalidDate) {
			msg = service.ErrInvalidDate.Error()
		}
		c.JSON(status, gin.H{"message": msg})
		return
	}

	log := logger.Get()
	log.Error().Err(err).Str("action", action).Msg("request failed")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}

// authUser returns the user resolved by the auth middleware
func authUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token is missing"})
	}
	return user, ok
}
