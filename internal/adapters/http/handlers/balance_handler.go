// Package handlers - Balance HTTP handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitzy/expense-service/internal/adapters/http/common"
	"github.com/splitzy/expense-service/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// GetPairBalanceUseCase fetches the balance between two users.
type GetPairBalanceUseCase interface {
	Execute(ctx context.Context, query dtos.GetPairBalanceQuery) (*dtos.PairBalanceDTO, error)
}

// GetUserBalancesUseCase fetches every balance a user participates in.
type GetUserBalancesUseCase interface {
	Execute(ctx context.Context, query dtos.GetUserBalancesQuery) (*dtos.UserBalancesDTO, error)
}

// SettlePairUseCase settles the full balance between two users.
type SettlePairUseCase interface {
	Execute(ctx context.Context, cmd dtos.SettlePairCommand) (*dtos.PairBalanceDTO, error)
}

// PartiallySettlePairUseCase pays down part of a pair balance.
type PartiallySettlePairUseCase interface {
	Execute(ctx context.Context, cmd dtos.PartiallySettlePairCommand) (*dtos.PairBalanceDTO, error)
}

// ============================================
// Balance Handler
// ============================================

// BalanceHandler serves the balance endpoints.
type BalanceHandler struct {
	getPairBalance      GetPairBalanceUseCase
	getUserBalances     GetUserBalancesUseCase
	settlePair          SettlePairUseCase
	partiallySettlePair PartiallySettlePairUseCase
}

// NewBalanceHandler creates a BalanceHandler.
func NewBalanceHandler(
	getPairBalance GetPairBalanceUseCase,
	getUserBalances GetUserBalancesUseCase,
	settlePair SettlePairUseCase,
	partiallySettlePair PartiallySettlePairUseCase,
) *BalanceHandler {
	return &BalanceHandler{
		getPairBalance:      getPairBalance,
		getUserBalances:     getUserBalances,
		settlePair:          settlePair,
		partiallySettlePair: partiallySettlePair,
	}
}

// ============================================
// HTTP Handlers
// ============================================

// GetUserBalances returns every balance the user participates in.
//
// @Summary Get all balances for a user
// @Tags Balances
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Pairs per page" default(20)
// @Success 200 {object} common.APIResponse{data=dtos.UserBalancesDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/users/{user_id}/balances [get]
func (h *BalanceHandler) GetUserBalances(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	pagination := ParsePagination(c)
	query := dtos.GetUserBalancesQuery{
		UserID: userID,
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	}

	result, err := h.getUserBalances.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.SuccessWithMeta(c, http.StatusOK, result, BuildMeta(pagination, int(result.TotalCount)))
}

// GetPairBalance returns the balance between two users, from the first
// user's perspective.
//
// @Summary Get balance between two users
// @Tags Balances
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param other_id path string true "Counterparty ID" format(uuid)
// @Success 200 {object} common.APIResponse{data=dtos.PairBalanceDTO}
// @Failure 400 {object} common.APIResponse
// @Router /api/v1/users/{user_id}/balances/{other_id} [get]
func (h *BalanceHandler) GetPairBalance(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	otherID, ok := pathID(c, "other_id")
	if !ok {
		return
	}

	query := dtos.GetPairBalanceQuery{UserID: userID, OtherUserID: otherID}

	result, err := h.getPairBalance.Execute(c.Request.Context(), query)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// SettlePair settles the full balance between two users.
//
// @Summary Settle the balance between two users
// @Tags Balances
// @Accept json
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param request body dtos.SettlePairCommand true "Counterparty"
// @Success 200 {object} common.APIResponse{data=dtos.PairBalanceDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse "No balance exists between the users"
// @Failure 409 {object} common.APIResponse "Concurrency error"
// @Router /api/v1/users/{user_id}/balances/settle [post]
func (h *BalanceHandler) SettlePair(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	var cmd dtos.SettlePairCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.UserID = userID
	if !ValidateStruct(c, cmd) {
		return
	}

	result, err := h.settlePair.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// PartiallySettlePair pays down part of a pair balance.
//
// @Summary Partially settle the balance between two users
// @Tags Balances
// @Accept json
// @Produce json
// @Param user_id path string true "User ID" format(uuid)
// @Param request body dtos.PartiallySettlePairCommand true "Payment"
// @Success 200 {object} common.APIResponse{data=dtos.PairBalanceDTO}
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse "No balance exists between the users"
// @Failure 409 {object} common.APIResponse "Concurrency error"
// @Router /api/v1/users/{user_id}/balances/partial-settle [post]
func (h *BalanceHandler) PartiallySettlePair(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	var cmd dtos.PartiallySettlePairCommand
	if !BindJSON(c, &cmd) {
		return
	}
	cmd.UserID = userID
	if !ValidateStruct(c, cmd) {
		return
	}

	result, err := h.partiallySettlePair.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}
