package handler

import (
	"context"

	"finance_tracker/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*model.User)
	return user, args.String(1), args.Error(2)
}

func (m *mockAuthService) SeedAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error) {
	args := m.Called(ctx, username, email, password)
	user, _ := args.Get(0).(*model.User)
	return user, args.Bool(1), args.Error(2)
}

type mockExpenseService struct{ mock.Mock }

func (m *mockExpenseService) List(ctx context.Context, actor *model.User) ([]model.Expense, error) {
	args := m.Called(ctx, actor)
	expenses, _ := args.Get(0).([]model.Expense)
	return expenses, args.Error(1)
}

func (m *mockExpenseService) ListAll(ctx context.Context) ([]model.Expense, error) {
	args := m.Called(ctx)
	expenses, _ := args.Get(0).([]model.Expense)
	return expenses, args.Error(1)
}

func (m *mockExpenseService) Create(ctx context.Context, actor *model.User, req model.CreateExpenseRequest) (*model.Expense, error) {
	args := m.Called(ctx, actor, req)
	expense, _ := args.Get(0).(*model.Expense)
	return expense, args.Error(1)
}

func (m *mockExpenseService) Update(ctx context.Context, actor *model.User, id int64, req model.UpdateExpenseRequest) (*model.Expense, error) {
	args := m.Called(ctx, actor, id, req)
	expense, _ := args.Get(0).(*model.Expense)
	return expense, args.Error(1)
}

func (m *mockExpenseService) Delete(ctx context.Context, actor *model.User, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockAdminService struct{ mock.Mock }

func (m *mockAdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockAdminService) DeleteUser(ctx context.Context, actor *model.User, targetID int) (*model.User, error) {
	args := m.Called(ctx, actor, targetID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}
