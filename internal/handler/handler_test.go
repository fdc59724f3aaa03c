package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance_tracker/internal/middleware"
	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = &model.User{ID: 1, Username: "alice", Email: "a@x.com", PasswordHash: "$2a$hash", Role: model.RoleUser}
	root  = &model.User{ID: 2, Username: "admin", Email: "admin@x.com", Role: model.RoleAdmin}
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser stands in for JWTAuthMiddleware
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.AuthUserKey, user)
		}
		c.Next()
	}
}

func newTestRouter(actor *model.User, auth service.AuthService, expenses service.ExpenseService, admin service.AdminService) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	if auth != nil {
		NewAuthHandler(auth).RegisterAuthRoutes(api)
	}
	authed := api.Group("", asUser(actor))
	if expenses != nil {
		NewExpenseHandler(expenses).RegisterExpenseRoutes(authed)
	}
	if admin != nil {
		NewAdminHandler(admin, expenses).RegisterAdminRoutes(authed)
	}
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func sampleExpense() *model.Expense {
	return &model.Expense{
		ID:              7,
		UserID:          alice.ID,
		Amount:          decimal.RequireFromString("12.5"),
		Category:        "food",
		Date:            model.NewDate(2024, 1, 15),
		TransactionType: model.TransactionTypeExpense,
		Currency:        "USD",
	}
}

func TestAuthHandler_Register(t *testing.T) {
	auth := new(mockAuthService)
	want := model.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw", PasswordConfirm: "pw"}
	auth.On("Register", mock.Anything, want).Return(alice, nil)
	r := newTestRouter(nil, auth, nil, nil)

	rec, resp := do(t, r, http.MethodPost, "/api/register",
		`{"username":"alice","email":"a@x.com","password":"pw","password_confirm":"pw"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user created", resp["message"])
	auth.AssertExpectations(t)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"validation", &service.ValidationError{Fields: []string{"password_confirm"}}, "missing required fields: password_confirm"},
		{"mismatch", service.ErrPasswordMismatch, service.ErrPasswordMismatch.Error()},
		{"taken", service.ErrEmailTaken, service.ErrEmailTaken.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mockAuthService)
			auth.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err)
			r := newTestRouter(nil, auth, nil, nil)

			rec, resp := do(t, r, http.MethodPost, "/api/register", `{"username":"alice"}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, resp["message"])
		})
	}
}

func TestAuthHandler_Register_BadBody(t *testing.T) {
	auth := new(mockAuthService)
	r := newTestRouter(nil, auth, nil, nil)

	rec, _ := do(t, r, http.MethodPost, "/api/register", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestAuthHandler_Login(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("Login", mock.Anything, "a@x.com", "pw").Return(alice, "signed.token.value", nil)
	r := newTestRouter(nil, auth, nil, nil)

	rec, resp := do(t, r, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed.token.value", resp["token"])

	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, rec.Body.String(), alice.PasswordHash)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, "", service.ErrInvalidCredentials)
	r := newTestRouter(nil, auth, nil, nil)

	for _, body := range []string{`{"email":"a@x.com","password":"wrong"}`, `{}`, `not json`} {
		rec, resp := do(t, r, http.MethodPost, "/api/login", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
		assert.Equal(t, "invalid credentials", resp["message"], body)
	}
}

func TestAuthHandler_Login_StoreFailure(t *testing.T) {
	auth := new(mockAuthService)
	auth.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, "", errors.New("db down"))
	r := newTestRouter(nil, auth, nil, nil)

	rec, resp := do(t, r, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", resp["message"])
}

func TestExpenseHandler_List(t *testing.T) {
	expenses := new(mockExpenseService)
	expenses.On("List", mock.Anything, alice).Return([]model.Expense{*sampleExpense()}, nil)
	r := newTestRouter(alice, nil, expenses, nil)

	rec, _ := do(t, r, http.MethodGet, "/api/expenses", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 12.5, list[0]["amount"])
	assert.Equal(t, "2024-01-15", list[0]["date"])
	assert.Equal(t, float64(alice.ID), list[0]["user_id"])
}

func TestExpenseHandler_List_Empty(t *testing.T) {
	expenses := new(mockExpenseService)
	expenses.On("List", mock.Anything, alice).Return([]model.Expense{}, nil)
	r := newTestRouter(alice, nil, expenses, nil)

	rec, _ := do(t, r, http.MethodGet, "/api/expenses", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestExpenseHandler_Create(t *testing.T) {
	expenses := new(mockExpenseService)
	expenses.On("Create", mock.Anything, alice, mock.MatchedBy(func(req model.CreateExpenseRequest) bool {
		return req.Amount != nil && req.Amount.Equal(decimal.RequireFromString("12.5")) &&
			*req.Category == "food" && req.Description == nil && *req.Date == "2024-01-15"
	})).Return(sampleExpense(), nil)
	r := newTestRouter(alice, nil, expenses, nil)

	rec, resp := do(t, r, http.MethodPost, "/api/expenses",
		`{"amount":12.5,"category":"food","date":"2024-01-15","transaction_type":"expense","currency":"USD"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "transaction added", resp["message"])
	expense, ok := resp["expense"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), expense["id"])
	assert.Equal(t, "", expense["description"])
	expenses.AssertExpectations(t)
}

func TestExpenseHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"missing", &service.ValidationError{Fields: []string{"amount"}}, http.StatusBadRequest, "missing required fields: amount"},
		{"bad date", fmt.Errorf("%w: parsing time", service.ErrInvalidDate), http.StatusBadRequest, service.ErrInvalidDate.Error()},
		{"store", errors.New("db down"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses := new(mockExpenseService)
			expenses.On("Create", mock.Anything, alice, mock.Anything).Return(nil, tt.err)
			r := newTestRouter(alice, nil, expenses, nil)

			rec, resp := do(t, r, http.MethodPost, "/api/expenses", `{"category":"food"}`)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.msg, resp["message"])
		})
	}
}

func TestExpenseHandler_Create_BadAmount(t *testing.T) {
	expenses := new(mockExpenseService)
	r := newTestRouter(alice, nil, expenses, nil)

	rec, _ := do(t, r, http.MethodPost, "/api/expenses", `{"amount":"twelve","category":"food"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	expenses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestExpenseHandler_Update(t *testing.T) {
	updated := sampleExpense()
	updated.Category = "Food"
	expenses := new(mockExpenseService)
	expenses.On("Update", mock.Anything, alice, int64(7), mock.MatchedBy(func(req model.UpdateExpenseRequest) bool {
		return req.Category != nil && *req.Category == "Food" && req.Amount == nil && req.Date == nil
	})).Return(updated, nil)
	r := newTestRouter(alice, nil, expenses, nil)

	rec, resp := do(t, r, http.MethodPut, "/api/expenses/7", `{"category":"Food"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "transaction updated", resp["message"])
	expenses.AssertExpectations(t)
}

func TestExpenseHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrExpenseNotFound, http.StatusNotFound},
		{"not owner", service.ErrForbidden, http.StatusForbidden},
		{"bad date", service.ErrInvalidDate, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses := new(mockExpenseService)
			expenses.On("Update", mock.Anything, alice, int64(7), mock.Anything).Return(nil, tt.err)
			r := newTestRouter(alice, nil, expenses, nil)

			rec, resp := do(t, r, http.MethodPut, "/api/expenses/7", `{"category":"x"}`)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.err.Error(), resp["message"])
		})
	}
}

func TestExpenseHandler_BadID(t *testing.T) {
	expenses := new(mockExpenseService)
	r := newTestRouter(alice, nil, expenses, nil)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		rec, resp := do(t, r, method, "/api/expenses/abc", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.Equal(t, "invalid transaction id", resp["message"])
	}
	expenses.AssertExpectations(t)
}

func TestExpenseHandler_Delete(t *testing.T) {
	expenses := new(mockExpenseService)
	expenses.On("Delete", mock.Anything, alice, int64(7)).Return(nil)
	expenses.On("Delete", mock.Anything, alice, int64(8)).Return(service.ErrForbidden)
	r := newTestRouter(alice, nil, expenses, nil)

	rec, resp := do(t, r, http.MethodDelete, "/api/expenses/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "transaction deleted", resp["message"])

	rec, _ = do(t, r, http.MethodDelete, "/api/expenses/8", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExpenseHandler_NoAuthUser(t *testing.T) {
	expenses := new(mockExpenseService)
	r := newTestRouter(nil, nil, expenses, nil)

	rec, _ := do(t, r, http.MethodGet, "/api/expenses", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminHandler_ListUsers(t *testing.T) {
	admin := new(mockAdminService)
	admin.On("ListUsers", mock.Anything).Return([]model.User{*root, *alice}, nil)
	r := newTestRouter(root, nil, new(mockExpenseService), admin)

	rec, _ := do(t, r, http.MethodGet, "/api/admin/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0]["role"])
	assert.NotContains(t, users[1], "password_hash")
}

func TestAdminHandler_ListExpenses(t *testing.T) {
	expenses := new(mockExpenseService)
	expenses.On("ListAll", mock.Anything).Return([]model.Expense{*sampleExpense()}, nil)
	r := newTestRouter(root, nil, expenses, new(mockAdminService))

	rec, _ := do(t, r, http.MethodGet, "/api/admin/expenses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	admin := new(mockAdminService)
	admin.On("DeleteUser", mock.Anything, root, 1).Return(alice, nil)
	admin.On("DeleteUser", mock.Anything, root, 2).Return(nil, service.ErrSelfDelete)
	admin.On("DeleteUser", mock.Anything, root, 99).Return(nil, service.ErrUserNotFound)
	r := newTestRouter(root, nil, new(mockExpenseService), admin)

	rec, resp := do(t, r, http.MethodDelete, "/api/admin/users/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user alice and all their transactions deleted", resp["message"])

	rec, resp = do(t, r, http.MethodDelete, "/api/admin/users/2", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrSelfDelete.Error(), resp["message"])

	rec, _ = do(t, r, http.MethodDelete, "/api/admin/users/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, r, http.MethodDelete, "/api/admin/users/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
