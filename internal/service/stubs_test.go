package service

import (
	"context"
	"errors"
	"sort"

	"finance_tracker/internal/model"
	"finance_tracker/internal/repository"
)

// stubStore backs both stub repositories so user deletion can cascade
type stubStore struct {
	users         map[int]*model.User
	expenses      map[int64]*model.Expense
	nextUserID    int
	nextExpenseID int64

	// createErr is returned by the next user Create call
	createErr error
	failErr   error
}

func newStubStore() *stubStore {
	return &stubStore{users: map[int]*model.User{}, expenses: map[int64]*model.Expense{}}
}

type stubUserRepo struct{ s *stubStore }

type stubExpenseRepo struct{ s *stubStore }

func (r stubUserRepo) Create(_ context.Context, user *model.User) error {
	if err := r.s.createErr; err != nil {
		r.s.createErr = nil
		return err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if r.s.failErr != nil {
		return nil, r.s.failErr
	}
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r stubUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r stubUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	users := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r stubUserRepo) DeleteWithExpenses(_ context.Context, id int) (bool, error) {
	if r.s.failErr != nil {
		return false, r.s.failErr
	}
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for eid, e := range r.s.expenses {
		if e.UserID == id {
			delete(r.s.expenses, eid)
		}
	}
	delete(r.s.users, id)
	return true, nil
}

func (r stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if r.s.failErr != nil {
		return r.s.failErr
	}
	r.s.nextExpenseID++
	e.ID = r.s.nextExpenseID
	clone := *e
	r.s.expenses[e.ID] = &clone
	return nil
}

func (r stubExpenseRepo) FindByID(_ context.Context, id int64) (*model.Expense, error) {
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (r stubExpenseRepo) sorted(keep func(model.Expense) bool) []model.Expense {
	out := make([]model.Expense, 0)
	for _, e := range r.s.expenses {
		if keep(*e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r stubExpenseRepo) FindByUser(_ context.Context, userID int) ([]model.Expense, error) {
	return r.sorted(func(e model.Expense) bool { return e.UserID == userID }), nil
}

func (r stubExpenseRepo) FindAll(_ context.Context) ([]model.Expense, error) {
	return r.sorted(func(model.Expense) bool { return true }), nil
}

func (r stubExpenseRepo) Update(_ context.Context, e *model.Expense) error {
	cur, ok := r.s.expenses[e.ID]
	if !ok || cur.UserID != e.UserID {
		return repository.ErrNotFound
	}
	clone := *e
	r.s.expenses[e.ID] = &clone
	return nil
}

func (r stubExpenseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.expenses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.expenses, id)
	return nil
}

var errStoreDown = errors.New("connection refused")

func strPtr(s string) *string { return &s }
