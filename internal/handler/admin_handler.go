package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"finance_tracker/internal/model"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin-only routes
type AdminHandler struct {
	admin    service.AdminService
	expenses service.ExpenseService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, expenses service.ExpenseService) *AdminHandler {
	return &AdminHandler{admin: admin, expenses: expenses}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "list users")
		return
	}

	views := make([]model.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	c.JSON(http.StatusOK, views)
}

func (h *AdminHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenses.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "list all expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := authUser(c)
	if !ok {
		return
	}

	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || targetID <= 0 {
		badRequest(c, "invalid user id")
		return
	}

	deleted, err := h.admin.DeleteUser(c.Request.Context(), actor, targetID)
	if err != nil {
		respondError(c, err, "delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("user %s and all their transactions deleted", deleted.Username),
	})
}

// RegisterAdminRoutes registers admin routes; the group must already require an admin
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/expenses", h.ListExpenses)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}
