// Package dtos - balance DTOs.
package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// SettlePairCommand settles the full balance between two users.
type SettlePairCommand struct {
	UserID      string `json:"-" validate:"required,uuid"`
	OtherUserID string `json:"other_user_id" validate:"required,uuid"`
}

// PartiallySettlePairCommand moves the pair balance toward zero by the
// given amount, paid by whoever currently owes.
type PartiallySettlePairCommand struct {
	UserID      string `json:"-" validate:"required,uuid"`
	OtherUserID string `json:"other_user_id" validate:"required,uuid"`
	Amount      string `json:"amount" validate:"required,money_amount"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetPairBalanceQuery fetches the balance between two users, from the first
// user's perspective.
type GetPairBalanceQuery struct {
	UserID      string `json:"-" validate:"required,uuid"`
	OtherUserID string `json:"-" validate:"required,uuid"`
}

// GetUserBalancesQuery fetches every balance the user participates in.
// Limit 0 disables pagination; the totals always cover all pairs.
type GetUserBalancesQuery struct {
	UserID string `json:"-" validate:"required,uuid"`
	Offset int    `json:"offset" validate:"min=0"`
	Limit  int    `json:"limit" validate:"min=0,max=100"`
}

// ============================================
// Response DTOs
// ============================================

// PairBalanceDTO is one balance from the requesting user's perspective.
// Amount is positive when the requesting user owes the counterparty.
type PairBalanceDTO struct {
	UserID         string     `json:"user_id"`
	CounterpartyID string     `json:"counterparty_id"`
	Amount         string     `json:"amount"`
	CurrencyCode   string     `json:"currency_code"`
	Settled        bool       `json:"settled"`
	LastSettledAt  *time.Time `json:"last_settled_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// UserBalancesDTO aggregates every balance a user participates in.
// TotalOwed sums what the user owes others; TotalOwedToUser sums what
// others owe the user; Net is their difference from the user's viewpoint.
type UserBalancesDTO struct {
	UserID          string           `json:"user_id"`
	Balances        []PairBalanceDTO `json:"balances"`
	TotalCount      int64            `json:"total_count"`
	TotalOwed       string           `json:"total_owed"`
	TotalOwedToUser string           `json:"total_owed_to_user"`
	Net             string           `json:"net"`
	CurrencyCode    string           `json:"currency_code"`
}
