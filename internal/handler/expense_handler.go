package handler

import (
	"net/http"
	"strconv"

	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles the caller's own transactions
type ExpenseHandler struct {
	service service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(s service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

func expenseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid transaction id")
		return 0, false
	}
	return id, true
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	expenses, err := h.service.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "list expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	var req model.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	expense, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err, "create expense")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction added", "expense": expense})
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := expenseID(c)
	if !ok {
		return
	}

	var req model.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	expense, err := h.service.Update(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, err, "update expense")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction updated", "expense": expense})
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := expenseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err, "delete expense")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// RegisterExpenseRoutes registers the expense routes on an authenticated group
func (h *ExpenseHandler) RegisterExpenseRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.ListExpenses)
		expenses.POST("", h.CreateExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.DELETE("/:id", h.DeleteExpense)
	}
}
