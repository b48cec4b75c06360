// Package dtos - data transfer objects crossing the application boundary.
// Amounts travel as decimal strings ("100.50"); the domain layer parses them
// into exact cent values.
package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// ParticipantInputDTO is one participant in a split request. Which fields
// are required depends on the split type.
type ParticipantInputDTO struct {
	UserID     string  `json:"user_id" validate:"required,uuid"`
	Amount     *string `json:"amount,omitempty" validate:"omitempty,money_amount"`      // EXACT
	Ratio      int     `json:"ratio,omitempty" validate:"omitempty,min=1"`              // CUSTOM_RATIO
	ItemTotal  *string `json:"item_total,omitempty" validate:"omitempty,money_amount"`  // ITEMIZED
	Adjustment *string `json:"adjustment,omitempty" validate:"omitempty,signed_amount"` // ADJUSTMENT
}

// CreateExpenseCommand creates an expense and computes its splits.
type CreateExpenseCommand struct {
	Title        string                `json:"title" validate:"required,max=200"`
	Description  string                `json:"description,omitempty" validate:"max=1000"`
	Amount       string                `json:"amount" validate:"required,money_amount"`
	CurrencyCode string                `json:"currency_code" validate:"required,currency_code"`
	PaidByUserID string                `json:"paid_by_user_id" validate:"required,uuid"`
	Category     string                `json:"category" validate:"required,oneof=FOOD TRAVEL ACCOMMODATION UTILITIES ENTERTAINMENT SHOPPING OTHER"`
	SplitType    string                `json:"split_type" validate:"required,oneof=EQUAL CUSTOM_RATIO EXACT ITEMIZED ADJUSTMENT"`
	GroupID      *string               `json:"group_id,omitempty" validate:"omitempty,uuid"`
	ExpenseDate  *time.Time            `json:"expense_date,omitempty"`
	Notes        string                `json:"notes,omitempty" validate:"max=1000"`
	ReceiptURL   string                `json:"receipt_url,omitempty" validate:"omitempty,url"`
	Participants []ParticipantInputDTO `json:"participants" validate:"required,min=1,dive"`
}

// UpdateExpenseCommand applies a partial update; nil fields stay untouched.
type UpdateExpenseCommand struct {
	ExpenseID   string     `json:"-" validate:"required,uuid"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,oneof=FOOD TRAVEL ACCOMMODATION UTILITIES ENTERTAINMENT SHOPPING OTHER"`
	ExpenseDate *time.Time `json:"expense_date,omitempty"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
	ReceiptURL  *string    `json:"receipt_url,omitempty" validate:"omitempty,url"`
}

// DeleteExpenseCommand archives an expense.
type DeleteExpenseCommand struct {
	ExpenseID string `json:"-" validate:"required,uuid"`
}

// SettleSplitCommand settles a participant's split in full.
type SettleSplitCommand struct {
	ExpenseID string `json:"-" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required,uuid"`
}

// PartiallySettleSplitCommand records a partial payment on a split.
type PartiallySettleSplitCommand struct {
	ExpenseID string `json:"-" validate:"required,uuid"`
	UserID    string `json:"user_id" validate:"required,uuid"`
	Amount    string `json:"amount" validate:"required,money_amount"`
}

// ============================================
// Queries (read operations)
// ============================================

// GetExpenseQuery fetches one expense by ID.
type GetExpenseQuery struct {
	ExpenseID string `json:"-" validate:"required,uuid"`
}

// ListExpensesQuery lists expenses with filters and pagination.
type ListExpensesQuery struct {
	UserID    *string    `json:"user_id,omitempty" validate:"omitempty,uuid"`
	PaidBy    *string    `json:"paid_by,omitempty" validate:"omitempty,uuid"`
	GroupID   *string    `json:"group_id,omitempty" validate:"omitempty,uuid"`
	Category  *string    `json:"category,omitempty" validate:"omitempty,oneof=FOOD TRAVEL ACCOMMODATION UTILITIES ENTERTAINMENT SHOPPING OTHER"`
	SplitType *string    `json:"split_type,omitempty" validate:"omitempty,oneof=EQUAL CUSTOM_RATIO EXACT ITEMIZED ADJUSTMENT"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE SETTLED ARCHIVED"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Offset    int        `json:"offset" validate:"min=0"`
	Limit     int        `json:"limit" validate:"min=1,max=100"`
}

// ListUnsettledQuery lists expenses on which the user still owes.
type ListUnsettledQuery struct {
	UserID string `json:"-" validate:"required,uuid"`
	Offset int    `json:"offset" validate:"min=0"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

// StatisticsQuery aggregates a user's totals, optionally restricted to an
// expense date range.
type StatisticsQuery struct {
	UserID string     `json:"-" validate:"required,uuid"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}

// ============================================
// Response DTOs
// ============================================

// SplitDTO is the API representation of one participant's share.
type SplitDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Amount        string    `json:"amount"`
	SettledAmount string    `json:"settled_amount"`
	State         string    `json:"state"`
	Percentage    string    `json:"percentage,omitempty"`
	Ratio         int       `json:"ratio,omitempty"`
	ItemTotal     string    `json:"item_total,omitempty"`
	Adjustment    string    `json:"adjustment,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExpenseDTO is the API representation of an expense with its splits.
type ExpenseDTO struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Amount       string     `json:"amount"`
	CurrencyCode string     `json:"currency_code"`
	PaidByUserID string     `json:"paid_by_user_id"`
	Category     string     `json:"category"`
	SplitType    string     `json:"split_type"`
	Status       string     `json:"status"`
	GroupID      string     `json:"group_id,omitempty"`
	ExpenseDate  time.Time  `json:"expense_date"`
	Notes        string     `json:"notes,omitempty"`
	ReceiptURL   string     `json:"receipt_url,omitempty"`
	Splits       []SplitDTO `json:"splits"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ExpenseListDTO is a paginated expense listing.
type ExpenseListDTO struct {
	Expenses   []ExpenseDTO `json:"expenses"`
	TotalCount int64        `json:"total_count"`
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
}

// ExpenseStatisticsDTO summarizes a user's position.
type ExpenseStatisticsDTO struct {
	UserID       string `json:"user_id"`
	TotalPaid    string `json:"total_paid"`
	TotalOwed    string `json:"total_owed"`
	NetBalance   string `json:"net_balance"`
	CurrencyCode string `json:"currency_code"`
	ExpenseCount int64  `json:"expense_count"`
}
