package service

import (
	"context"
	"errors"
	"fmt"

	"finance_tracker/internal/metrics"
	"finance_tracker/internal/model"
	"finance_tracker/internal/repository"

	"github.com/go-playground/validator/v10"
)

// ExpenseService defines operations for income and expense records.
// Only the owner may modify a record; admins get read access through ListAll.
type ExpenseService interface {
	List(ctx context.Context, actor *model.User) ([]model.Expense, error)
	ListAll(ctx context.Context) ([]model.Expense, error)
	Create(ctx context.Context, actor *model.User, req model.CreateExpenseRequest) (*model.Expense, error)
	Update(ctx context.Context, actor *model.User, id int64, req model.UpdateExpenseRequest) (*model.Expense, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
}

type expenseService struct {
	repo     repository.ExpenseRepository
	validate *validator.Validate
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo, validate: newValidator()}
}

func (s *expenseService) List(ctx context.Context, actor *model.User) ([]model.Expense, error) {
	expenses, err := s.repo.FindByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user expenses from repo: %w", err)
	}
	return expenses, nil
}

func (s *expenseService) ListAll(ctx context.Context) ([]model.Expense, error) {
	expenses, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all expenses from repo: %w", err)
	}
	return expenses, nil
}

func parseDate(s string) (model.Date, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	return d, nil
}

// Create stores a new record owned by actor
func (s *expenseService) Create(ctx context.Context, actor *model.User, req model.CreateExpenseRequest) (*model.Expense, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		UserID:          actor.ID,
		Amount:          *req.Amount,
		Category:        *req.Category,
		Date:            date,
		TransactionType: *req.TransactionType,
		Currency:        *req.Currency,
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense in repo: %w", err)
	}
	metrics.ExpensesCreatedTotal.WithLabelValues(expense.TransactionType).Inc()
	return expense, nil
}

// owned loads the record and checks that actor owns it
func (s *expenseService) owned(ctx context.Context, actor *model.User, id int64) (*model.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return expense, nil
}

// Update applies the fields present in req
func (s *expenseService) Update(ctx context.Context, actor *model.User, id int64, req model.UpdateExpenseRequest) (*model.Expense, error) {
	expense, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = date
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.TransactionType != nil {
		expense.TransactionType = *req.TransactionType
	}
	if req.Currency != nil {
		expense.Currency = *req.Currency
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to update expense in repo: %w", err)
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("failed to delete expense in repo: %w", err)
	}
	return nil
}
