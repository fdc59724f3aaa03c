package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

func init() {
	// Amounts go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense is an income or expense record owned by exactly one user.
// TransactionType is an open string; the constants above are only the common values.
type Expense struct {
	ID              int64           `json:"id"`
	UserID          int             `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Date            Date            `json:"date"`
	TransactionType string          `json:"transaction_type"`
	Currency        string          `json:"currency"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateExpenseRequest is the body of POST /api/expenses.
// Pointers distinguish an absent field from a zero value.
type CreateExpenseRequest struct {
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	Category        *string          `json:"category" validate:"required"`
	Description     *string          `json:"description"`
	Date            *string          `json:"date" validate:"required"`
	TransactionType *string          `json:"transaction_type" validate:"required"`
	Currency        *string          `json:"currency" validate:"required"`
}

// UpdateExpenseRequest is the body of PUT /api/expenses/:id; only present fields are applied
type UpdateExpenseRequest struct {
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Date            *string          `json:"date,omitempty"`
	TransactionType *string          `json:"transaction_type,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
}
