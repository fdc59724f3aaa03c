package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrExpenseNotFound    = errors.New("transaction not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidDate        = errors.New("invalid date format, use YYYY-MM-DD")
)

// ValidationError reports request fields that are missing or unusable
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
