// Package handlers - Expense HTTP handlers.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/adapters/http/common"
	"github.com/splitzy/expense-service/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateExpenseUseCase creates an expense and computes its splits.
type CreateExpenseUseCase interface {
	Execute(ctx context.Context, cmd dtos.CreateExpenseCommand) (*dtos.ExpenseDTO, error)
}

// GetExpenseUseCase fetches one expense.
type GetExpenseUseCase interface {
	Execute(ctx context.Context, query dtos.GetExpenseQuery) (*dtos.ExpenseDTO, error)
}

// ListExpensesUseCase lists expenses with filters.
type ListExpensesUseCase interface {
	Execute(ctx context.Context, query dtos.ListExpensesQuery) (*dtos.ExpenseListDTO, error)
}

// UpdateExpenseUseCase updates descriptive fields.
type UpdateExpenseUseCase interface {
	Execute(ctx context.Context, cmd dtos.UpdateExpenseCommand) (*dtos.ExpenseDTO, error)
}

// DeleteExpenseUseCase archives an expense and reverses its debts.
type DeleteExpenseUseCase interface {
	Execute(ctx context.Context, cmd dtos.DeleteExpenseCommand) error
}

// SettleSplitUseCase settles a participant's split in full.
type SettleSplitUseCase interface {
	Execute(ctx context.Context, cmd dtos.SettleSplitCommand) (*dtos.ExpenseDTO, error)
}

// PartiallySettleSplitUseCase records a partial payment on a split.
type PartiallySettleSplitUseCase interface {
	Execute(ctx context.Context, cmd dtos.PartiallySettleSplitCommand) (*dtos.ExpenseDTO, error)
}

// ListUnsettledUseCase lists expenses the user still owes on.
type ListUnsettledUseCase interface {
	Execute(ctx context.Context, query dtos.ListUnsettledQuery) (*dtos.ExpenseListDTO, error)
}

// StatisticsUseCase aggregates a user's totals.
type StatisticsUseCase interface {
	Execute(ctx context.Context, query dtos.StatisticsQuery) (*dtos.ExpenseStatisticsDTO, error)
}

// ============================================
// Expense Handler
// ============================================

// ExpenseHandler serves the expense endpoints.
type ExpenseHandler struct {
	createExpense        CreateExpenseUseCase
	getExpense           GetExpenseUseCase
	listExpenses         ListExpensesUseCase
	updateExpense        UpdateExpenseUseCase
	deleteExpense        DeleteExpenseUseCase
	settleSplit          SettleSplitUseCase
	partiallySettleSplit PartiallySettleSplitUseCase
	listUnsettled        ListUnsettledUseCase
	statistics           StatisticsUseCase
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(
	createExpense CreateExpenseUseCase,
	getExpense GetExpenseUseCase,
	listExpenses ListExpensesUseCase,
	updateExpense UpdateExpenseUseCase,
	deleteExpense DeleteExpenseUseCase,
	settleSplit SettleSplitUseCase,
	partiallySettleSplit PartiallySettleSplitUseCase,
	listUnsettled ListUnsettledUseCase,
	statistics StatisticsUseCase,
) *ExpenseHandler {
	return &ExpenseHandler{
		createExpense:        createExpense,
		getExpense:           getExpense,
		listExpenses:         listExpenses,
		updateExpense:        updateExpense,
		deleteExpense:        deleteExpense,
		settleSplit:          settleSplit,
		partiallySettleSplit: partiallySettleSplit,
		listUnsettled:        listUnsettled,
		statistics:           statistics,
	}
}

// pathID parses a UUID path parameter; sends the error response on failure.
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		common.ValidationErrorResponse(c, []common.FieldError{
			{Field: name, Message: "Invalid UUID format", Code: "uuid"},
		})
		return "", false
	}
	return id, true
}

// ============================================
// HTTP Handlers
// ============================================

// CreateExpense creates a new expense.
//
// @Summary Create a new expense
// @Description Create an expense, compute its splits and update pair balances
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body dtos.CreateExpenseCommand true "Expense data"
// @Success 201 {object} common.APIResponse{data=dtos.ExpenseDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Split amounts do not match total"
// @Failure 500 {object} common.APIResponse
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var cmd dtos.CreateExpenseCommand
	if !BindJSON(c, &cmd) {
		return
	}
	if !ValidateStruct(c, cmd) {
		return
	}

	result, err := h.createExpense.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, result)
}

// GetExpense returns one expense by ID.
//
// @Summary Get expense by ID
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.getExpense.Execute(c.Request.Context(), dtos.GetExpenseQuery{ExpenseID: id})
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// ListExpenses returns a filtered, paginated expense listing.
//
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20) maximum(100)
// @Param user_id query string false "Filter by participant or payer" format(uuid)
// @Param paid_by query string false "Filter by payer" format(uuid)
// @Param group_id query string false "Filter by group" format(uuid)
// @Param category query string false "Filter by category"
// @Param split_type query string false "Filter by split type"
// @Param status query string false "Filter by status" Enums(ACTIVE, SETTLED, ARCHIVED)
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseListDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	pagination := ParsePagination(c)

	query := dtos.ListExpensesQuery{
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	}

	if v := c.Query("user_id"); v != "" {
		query.UserID = &v
	}
	if v := c.Query("paid_by"); v != "" {
		query.PaidBy = &v
	}
	if v := c.Query("group_id"); v != "" {
		query.GroupID = &v
	}
	if v := c.Query("category"); v != "" {
		query.Category = &v
	}
	if v := c.Query("split_type"); v != "" {
		query.SplitType = &v
	}
	if v := c.Query("status"); v != "" {
		query.Status = &v
	}
	if v := c.Query("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			common.BadRequestResponse(c, "Invalid 'from' timestamp, use RFC 3339")
			return
		}
		query.From = &ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			common.BadRequestResponse(c, "Invalid 'to' timestamp, use RFC 3339")
			return
		}
		query.To = &ts
	}

	if !ValidateStruct(c, query) {
		return
	}

	result, err := h.listExpenses.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	meta := BuildMeta(pagination, int(result.TotalCount))
	common.SuccessWithMeta(c, http.StatusOK, result, meta)
}

// UpdateExpense updates descriptive fields of an expense.
//
// @Summary Update expense
// @Description Update title, description, category, date, notes or receipt.
// @Description The amount and splits are immutable; delete and recreate instead.
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Param request body dtos.UpdateExpenseCommand true "Fields to update"
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Expense already settled"
// @Router /api/v1/expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var cmd dtos.UpdateExpenseCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.ExpenseID = id
	if !ValidateStruct(c, cmd) {
		return
	}

	result, err := h.updateExpense.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// DeleteExpense archives an expense and reverses its unsettled debts.
//
// @Summary Delete expense
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Expense already archived"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteExpense.Execute(c.Request.Context(), dtos.DeleteExpenseCommand{ExpenseID: id}); err != nil {
		common.HandleDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SettleSplit settles a participant's split in full.
//
// @Summary Settle a split
// @Description Mark a participant's share as fully paid and reduce the pair debt
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Param request body dtos.SettleSplitCommand true "Participant"
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Expense archived"
// @Router /api/v1/expenses/{id}/settle [post]
func (h *ExpenseHandler) SettleSplit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var cmd dtos.SettleSplitCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.ExpenseID = id
	if !ValidateStruct(c, cmd) {
		return
	}

	result, err := h.settleSplit.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// PartiallySettleSplit records a partial payment on a split.
//
// @Summary Partially settle a split
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Param request body dtos.PartiallySettleSplitCommand true "Payment"
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse "Payment exceeds remaining debt"
// @Router /api/v1/expenses/{id}/partial-settle [post]
func (h *ExpenseHandler) PartiallySettleSplit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var cmd dtos.PartiallySettleSplitCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.ExpenseID = id
	if !ValidateStruct(c, cmd) {
		return
	}

	result, err := h.partiallySettleSplit.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// ListUnsettled lists expenses the user still owes on.
//
// @Summary List unsettled expenses for a user
// @Tags Expenses
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20) maximum(100)
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseListDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/users/{user_id}/expenses/unsettled [get]
func (h *ExpenseHandler) ListUnsettled(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	pagination := ParsePagination(c)
	query := dtos.ListUnsettledQuery{
		UserID: userID,
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	}

	result, err := h.listUnsettled.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	meta := BuildMeta(pagination, int(result.TotalCount))
	common.SuccessWithMeta(c, http.StatusOK, result, meta)
}

// Statistics returns a user's expense totals.
//
// @Summary Get expense statistics for a user
// @Tags Expenses
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param from query string false "Expense date from (RFC 3339)"
// @Param to query string false "Expense date to (RFC 3339)"
// @Success 200 {object} common.APIResponse{data=dtos.ExpenseStatisticsDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/users/{user_id}/expenses/statistics [get]
func (h *ExpenseHandler) Statistics(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	query := dtos.StatisticsQuery{UserID: userID}
	if v := c.Query("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			common.BadRequestResponse(c, "Invalid 'from' timestamp, use RFC 3339")
			return
		}
		query.From = &ts
	}
	if v := c.Query("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			common.BadRequestResponse(c, "Invalid 'to' timestamp, use RFC 3339")
			return
		}
		query.To = &ts
	}

	result, err := h.statistics.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
