package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/model"
	"finance_tracker/internal/repository"
	"finance_tracker/internal/utils"

	"github.com/go-playground/validator/v10"
)

// AuthService provides registration, login and admin seeding
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	SeedAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	validate *validator.Validate
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		validate: newValidator(),
	}
}

// Register creates a regular user account. Nothing is stored when validation fails.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}
	return s.createUser(ctx, req.Username, req.Email, req.Password, model.RoleUser)
}

func (s *authService) createUser(ctx context.Context, username, email, password, role string) (*model.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	log := logger.Get()
	log.Info().Int("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login authenticates by email and password and issues a token.
// Unknown email and wrong password yield the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// SeedAdmin creates the bootstrap administrator unless the email is already registered.
// The boolean reports whether a new account was created.
func (s *authService) SeedAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error) {
	req := model.RegisterRequest{Username: username, Email: email, Password: password, PasswordConfirm: password}
	if err := validateRequest(s.validate, req); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	user, err := s.createUser(ctx, username, email, password, model.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
