// Package entities - Expense is the aggregate root of the split engine.
// It owns its splits exclusively and enforces the conservation invariant:
// the split amounts must sum to the expense total at cent precision.
package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// SplitType identifies the rule family used to compute splits.
type SplitType string

const (
	SplitTypeEqual       SplitType = "EQUAL"
	SplitTypeCustomRatio SplitType = "CUSTOM_RATIO"
	SplitTypeExact       SplitType = "EXACT"
	SplitTypeItemized    SplitType = "ITEMIZED"
	SplitTypeAdjustment  SplitType = "ADJUSTMENT"
)

// IsValid checks if the split type is one of the known strategies.
func (t SplitType) IsValid() bool {
	switch t {
	case SplitTypeEqual, SplitTypeCustomRatio, SplitTypeExact, SplitTypeItemized, SplitTypeAdjustment:
		return true
	default:
		return false
	}
}

// ExpenseStatus represents the lifecycle state of an expense.
type ExpenseStatus string

const (
	ExpenseStatusActive   ExpenseStatus = "ACTIVE"
	ExpenseStatusSettled  ExpenseStatus = "SETTLED"
	ExpenseStatusArchived ExpenseStatus = "ARCHIVED" // soft-deleted, retained for audit
)

// IsValid checks if the expense status is valid.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusActive, ExpenseStatusSettled, ExpenseStatusArchived:
		return true
	default:
		return false
	}
}

// ExpenseCategory classifies an expense for filtering and statistics.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "FOOD"
	CategoryTravel        ExpenseCategory = "TRAVEL"
	CategoryAccommodation ExpenseCategory = "ACCOMMODATION"
	CategoryUtilities     ExpenseCategory = "UTILITIES"
	CategoryEntertainment ExpenseCategory = "ENTERTAINMENT"
	CategoryShopping      ExpenseCategory = "SHOPPING"
	CategoryOther         ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a known one.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryAccommodation, CategoryUtilities,
		CategoryEntertainment, CategoryShopping, CategoryOther:
		return true
	default:
		return false
	}
}

// Expense represents a shared expense and its splits.
//
// Invariants:
//   - sum(split.amount) == total at cent precision whenever splits are
//     attached (relaxed only for ADJUSTMENT, see AttachSplits)
//   - one split per (expense, user)
//   - mutations are allowed only while status != SETTLED
type Expense struct {
	id           uuid.UUID
	title        string
	description  string
	total        valueobjects.Money
	currency     valueobjects.Currency
	paidByUserID uuid.UUID
	category     ExpenseCategory
	splitType    SplitType
	status       ExpenseStatus
	groupID      uuid.UUID // uuid.Nil when the expense is not tied to a group
	expenseDate  time.Time
	notes        string
	receiptURL   string
	splits       []Split
	createdAt    time.Time
	updatedAt    time.Time
}

// NewExpense creates an expense skeleton; splits are attached after the
// split engine computes them.
func NewExpense(
	title string,
	total valueobjects.Money,
	paidByUserID uuid.UUID,
	category ExpenseCategory,
	splitType SplitType,
	expenseDate time.Time,
) (*Expense, error) {
	var errs errors.ValidationErrors

	if title == "" {
		errs.Add("title", "title is required")
	}
	if len(title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}
	if !total.IsPositive() {
		errs.Add("total_amount", "total amount must be greater than zero")
	}
	if paidByUserID == uuid.Nil {
		errs.Add("paid_by_user_id", "payer is required")
	}
	if !category.IsValid() {
		errs.Add("category", "unknown category")
	}
	if !splitType.IsValid() {
		errs.Add("split_type", "unknown split type")
	}
	if errs.HasErrors() {
		return nil, errs
	}

	now := time.Now()
	if expenseDate.IsZero() {
		expenseDate = now
	}

	return &Expense{
		id:           uuid.New(),
		title:        title,
		total:        total,
		currency:     total.Currency(),
		paidByUserID: paidByUserID,
		category:     category,
		splitType:    splitType,
		status:       ExpenseStatusActive,
		expenseDate:  expenseDate,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructExpense rebuilds an Expense from stored data.
func ReconstructExpense(
	id uuid.UUID,
	title, description string,
	total valueobjects.Money,
	paidByUserID uuid.UUID,
	category ExpenseCategory,
	splitType SplitType,
	status ExpenseStatus,
	groupID uuid.UUID,
	expenseDate time.Time,
	notes, receiptURL string,
	splits []Split,
	createdAt, updatedAt time.Time,
) *Expense {
	return &Expense{
		id:           id,
		title:        title,
		description:  description,
		total:        total,
		currency:     total.Currency(),
		paidByUserID: paidByUserID,
		category:     category,
		splitType:    splitType,
		status:       status,
		groupID:      groupID,
		expenseDate:  expenseDate,
		notes:        notes,
		receiptURL:   receiptURL,
		splits:       splits,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Getters

func (e *Expense) ID() uuid.UUID {
	return e.id
}

func (e *Expense) Title() string {
	return e.title
}

func (e *Expense) Description() string {
	return e.description
}

func (e *Expense) Total() valueobjects.Money {
	return e.total
}

func (e *Expense) Currency() valueobjects.Currency {
	return e.currency
}

func (e *Expense) PaidByUserID() uuid.UUID {
	return e.paidByUserID
}

func (e *Expense) Category() ExpenseCategory {
	return e.category
}

func (e *Expense) SplitType() SplitType {
	return e.splitType
}

func (e *Expense) Status() ExpenseStatus {
	return e.status
}

func (e *Expense) GroupID() uuid.UUID {
	return e.groupID
}

func (e *Expense) ExpenseDate() time.Time {
	return e.expenseDate
}

func (e *Expense) Notes() string {
	return e.notes
}

func (e *Expense) ReceiptURL() string {
	return e.receiptURL
}

func (e *Expense) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Expense) UpdatedAt() time.Time {
	return e.updatedAt
}

// Splits returns a copy of the split records. The aggregate keeps ownership;
// callers cannot mutate internal state through the returned slice.
func (e *Expense) Splits() []Split {
	out := make([]Split, len(e.splits))
	copy(out, e.splits)
	return out
}

// SplitForUser returns the split belonging to the given participant.
func (e *Expense) SplitForUser(userID uuid.UUID) (Split, error) {
	for i := range e.splits {
		if e.splits[i].userID == userID {
			return e.splits[i], nil
		}
	}
	return Split{}, errors.ErrEntityNotFound
}

// ParticipantIDs returns the user IDs of all split participants, in split
// order.
func (e *Expense) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(e.splits))
	for i := range e.splits {
		ids[i] = e.splits[i].userID
	}
	return ids
}

// SetDetails fills in the optional descriptive fields.
func (e *Expense) SetDetails(description, notes, receiptURL string, groupID uuid.UUID) {
	e.description = description
	e.notes = notes
	e.receiptURL = receiptURL
	e.groupID = groupID
	e.updatedAt = time.Now()
}

// AttachSplits attaches the computed splits and re-checks the conservation
// invariant. The whole attach is rejected on any violation; the aggregate is
// never left with a partial split set.
//
// ADJUSTMENT is the one deliberate exception: its splits may not sum to the
// total when the supplied adjustments are imbalanced. The split engine has
// already logged a warning for that case, so the strict check is skipped
// here rather than silently "fixed".
func (e *Expense) AttachSplits(splits []Split) error {
	if len(splits) == 0 {
		return errors.ErrInvalidInput
	}

	seen := make(map[uuid.UUID]bool, len(splits))
	for i := range splits {
		if seen[splits[i].userID] {
			return errors.ValidationError{
				Field:   "splits",
				Message: "duplicate participant " + splits[i].userID.String(),
			}
		}
		seen[splits[i].userID] = true
	}

	e.splits = splits

	if e.splitType != SplitTypeAdjustment && !e.Validate() {
		sum := e.splitSum()
		e.splits = nil
		return errors.NewInconsistentSplitError(e.id.String(), e.total.Decimal(), sum.Decimal())
	}

	e.updatedAt = time.Now()
	return nil
}

// Validate reports whether the splits sum exactly to the total.
// Scaled-integer equality; no epsilon.
func (e *Expense) Validate() bool {
	return e.splitSum().Equals(e.total)
}

func (e *Expense) splitSum() valueobjects.Money {
	sum := valueobjects.Zero(e.currency)
	for i := range e.splits {
		s, err := sum.Add(e.splits[i].amount)
		if err != nil {
			// Mixed currencies cannot enter through the split engine.
			return valueobjects.Zero(e.currency)
		}
		sum = s
	}
	return sum
}

// UpdateFields carries the partial-update payload; nil fields are left
// untouched.
type UpdateFields struct {
	Title       *string
	Description *string
	Category    *ExpenseCategory
	ExpenseDate *time.Time
	Notes       *string
	ReceiptURL  *string
}

// Update applies a partial update. Settled expenses are immutable.
func (e *Expense) Update(fields UpdateFields) error {
	if e.status == ExpenseStatusSettled {
		return errors.ErrInvalidState
	}

	if fields.Title != nil {
		if *fields.Title == "" {
			return errors.ValidationError{Field: "title", Message: "title cannot be empty"}
		}
		e.title = *fields.Title
	}
	if fields.Description != nil {
		e.description = *fields.Description
	}
	if fields.Category != nil {
		if !fields.Category.IsValid() {
			return errors.ValidationError{Field: "category", Message: "unknown category"}
		}
		e.category = *fields.Category
	}
	if fields.ExpenseDate != nil {
		e.expenseDate = *fields.ExpenseDate
	}
	if fields.Notes != nil {
		e.notes = *fields.Notes
	}
	if fields.ReceiptURL != nil {
		e.receiptURL = *fields.ReceiptURL
	}

	e.updatedAt = time.Now()
	return nil
}

// Deactivate performs a logical delete. The record is retained so balances
// can be recomputed and audited.
func (e *Expense) Deactivate() {
	e.status = ExpenseStatusArchived
	e.updatedAt = time.Now()
}

// IsActive reports whether the expense participates in balance calculations.
func (e *Expense) IsActive() bool {
	return e.status != ExpenseStatusArchived
}

// SettleSplit fully settles the given participant's split and returns the
// amount that was newly settled (zero when the split was already settled).
// When every split reaches the terminal state the expense flips to SETTLED.
func (e *Expense) SettleSplit(userID uuid.UUID) (valueobjects.Money, error) {
	if e.status == ExpenseStatusArchived {
		return valueobjects.Money{}, errors.ErrInvalidState
	}

	idx := e.splitIndex(userID)
	if idx < 0 {
		return valueobjects.Money{}, errors.ErrEntityNotFound
	}

	delta := e.splits[idx].RemainingAmount()
	e.splits[idx].MarkAsSettled()
	e.refreshStatus()
	return delta, nil
}

// PartiallySettleSplit records a partial payment against a participant's
// split. Errors from the split's monotonic settlement rules pass through
// unchanged.
func (e *Expense) PartiallySettleSplit(userID uuid.UUID, delta valueobjects.Money) error {
	if e.status == ExpenseStatusArchived {
		return errors.ErrInvalidState
	}

	idx := e.splitIndex(userID)
	if idx < 0 {
		return errors.ErrEntityNotFound
	}

	if err := e.splits[idx].PartiallySettle(delta); err != nil {
		return err
	}
	e.refreshStatus()
	return nil
}

func (e *Expense) splitIndex(userID uuid.UUID) int {
	for i := range e.splits {
		if e.splits[i].userID == userID {
			return i
		}
	}
	return -1
}

// refreshStatus flips the expense to SETTLED once every split is settled.
func (e *Expense) refreshStatus() {
	for i := range e.splits {
		if !e.splits[i].IsSettled() {
			return
		}
	}
	e.status = ExpenseStatusSettled
	e.updatedAt = time.Now()
}
