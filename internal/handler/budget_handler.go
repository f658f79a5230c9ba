package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler exposes the derived expense ledger and the integrated
// financial dashboard of a project.
type BudgetHandler struct {
	budgetService  service.BudgetIntegrationService
	expenseService service.ExpenseService
}

func NewBudgetHandler(budgetService service.BudgetIntegrationService, expenseService service.ExpenseService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, expenseService: expenseService}
}

func (h *BudgetHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/expenses")
	{
		expenses.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListExpenses)
		expenses.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.GetExpense)
	}

	projects := router.Group("/api/projects")
	{
		projects.GET("/:id/expenses", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListProjectExpenses)
		projects.GET("/:id/financials", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.GetProjectFinancials)
	}

	orders := router.Group("/api/purchase-orders")
	{
		orders.GET("/:id/expenses", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListPurchaseOrderExpenses)
	}
}

// ListExpenses returns paginated expense records
// @Summary      List expenses
// @Tags         budget
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20)"
// @Success      200    {object}  response.Response
// @Router       /api/expenses [get]
func (h *BudgetHandler) ListExpenses(c *gin.Context) {
	params := pagination.Parse(c)

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, expenses, params.Page, params.Limit, total))
}

// GetExpense returns one expense record
// @Summary      Get expense
// @Tags         budget
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Expense ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/expenses/{id} [get]
func (h *BudgetHandler) GetExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid expense ID"))
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// ListProjectExpenses returns all expense records of a project
// @Summary      List project expenses
// @Tags         budget
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Router       /api/projects/{id}/expenses [get]
func (h *BudgetHandler) ListProjectExpenses(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project ID"))
		return
	}

	expenses, err := h.expenseService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expenses))
}

// ListPurchaseOrderExpenses returns the expenses derived from one purchase order
// @Summary      List purchase order expenses
// @Tags         budget
// @Security     BearerAuth
// @Produce      json
// @Param        id      path   string  true   "Purchase order ID"
// @Param        status  query  string  false  "Filter by status (planned or actual)"
// @Success      200  {object}  response.Response
// @Router       /api/purchase-orders/{id}/expenses [get]
func (h *BudgetHandler) ListPurchaseOrderExpenses(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid purchase order ID"))
		return
	}

	status := model.ExpenseStatus(c.Query("status"))
	expenses, err := h.expenseService.ListByPurchaseOrder(c.Request.Context(), orderID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expenses))
}

// GetProjectFinancials returns the integrated purchase-order/expense dashboard
// @Summary      Project financials
// @Tags         budget
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Project ID"
// @Success      200  {object}  response.Response
// @Router       /api/projects/{id}/financials [get]
func (h *BudgetHandler) GetProjectFinancials(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid project ID"))
		return
	}

	financials, err := h.budgetService.GetIntegratedProjectFinancials(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, financials))
}
