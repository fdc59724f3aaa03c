package repository

import (
	"context"
	"errors"
	"fmt"

	"finance_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// ExpenseRepository defines operations for expense data
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id int64) (*model.Expense, error)
	FindByUser(ctx context.Context, userID int) ([]model.Expense, error)
	FindAll(ctx context.Context) ([]model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id int64) error
}

type expenseRepository struct {
	db DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

const expenseColumns = `id, user_id, amount, category, description, date, transaction_type, currency, created_at, updated_at`

func scanExpense(row pgx.Row, e *model.Expense) error {
	return row.Scan(
		&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description,
		&e.Date.Time, &e.TransactionType, &e.Currency, &e.CreatedAt, &e.UpdatedAt,
	)
}

// Create inserts a new expense
func (r *expenseRepository) Create(ctx context.Context, e *model.Expense) error {
	sql := `INSERT INTO expenses (user_id, amount, category, description, date, transaction_type, currency)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, e.UserID, e.Amount, e.Category, e.Description, e.Date.Time, e.TransactionType, e.Currency).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// FindByID retrieves an expense by its ID. A missing expense is (nil, nil).
func (r *expenseRepository) FindByID(ctx context.Context, id int64) (*model.Expense, error) {
	e := &model.Expense{}
	sql := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	if err := scanExpense(r.db.QueryRow(ctx, sql, id), e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find expense by ID: %w", err)
	}
	return e, nil
}

// FindByUser retrieves a user's expenses, newest date first
func (r *expenseRepository) FindByUser(ctx context.Context, userID int) ([]model.Expense, error) {
	sql := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = $1 ORDER BY date DESC, id DESC`
	return r.query(ctx, sql, userID)
}

// FindAll retrieves every expense, newest date first
func (r *expenseRepository) FindAll(ctx context.Context) ([]model.Expense, error) {
	sql := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY date DESC, id DESC`
	return r.query(ctx, sql)
}

func (r *expenseRepository) query(ctx context.Context, sql string, args ...any) ([]model.Expense, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]model.Expense, 0)
	for rows.Next() {
		var e model.Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}

// Update writes every mutable column of the expense. Ownership is part of the WHERE clause.
func (r *expenseRepository) Update(ctx context.Context, e *model.Expense) error {
	sql := `UPDATE expenses
            SET amount = $1, category = $2, description = $3, date = $4, transaction_type = $5, currency = $6, updated_at = NOW()
            WHERE id = $7 AND user_id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, e.Amount, e.Category, e.Description, e.Date.Time, e.TransactionType, e.Currency, e.ID, e.UserID).
		Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// Delete removes a single expense
func (r *expenseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
