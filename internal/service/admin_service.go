package service

import (
	"context"
	"fmt"

	"finance_tracker/internal/logger"
	"finance_tracker/internal/model"
	"finance_tracker/internal/repository"
)

// AdminService holds the admin-only user operations
type AdminService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, targetID int) (*model.User, error)
}

type adminService struct {
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the target account together with all of its transactions.
// It returns the deleted user.
func (s *adminService) DeleteUser(ctx context.Context, actor *model.User, targetID int) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user for deletion: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == actor.ID {
		return nil, ErrSelfDelete
	}

	deleted, err := s.userRepo.DeleteWithExpenses(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return nil, ErrUserNotFound
	}

	log := logger.Get()
	log.Info().Int("admin_id", actor.ID).Int("user_id", target.ID).Msg("user deleted with all transactions")
	return target, nil
}
