package models

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category is the kind of a ledger transaction.
type Category string

const (
	CategoryIncome     Category = "income"
	CategoryExpense    Category = "expense"
	CategorySavings    Category = "savings"
	CategoryInvestment Category = "investment"
	CategoryDebt       Category = "debt"
)

// Categories returns all recognized transaction categories.
func Categories() []Category {
	return []Category{CategoryIncome, CategoryExpense, CategorySavings, CategoryInvestment, CategoryDebt}
}

// Valid reports whether the category is one of the recognized variants.
func (c Category) Valid() bool {
	switch c {
	case CategoryIncome, CategoryExpense, CategorySavings, CategoryInvestment, CategoryDebt:
		return true
	}

	return false
}

func (c Category) String() string {
	return string(c)
}

// Value returns the value for the SQL driver to write to the database.
func (c Category) Value() (driver.Value, error) {
	return string(c), nil
}

// Scan reads the value from the database.
func (c *Category) Scan(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return errors.New("unsupported database value for a transaction category")
		}
		s = string(b)
	}

	*c = Category(s)
	return nil
}

// Transaction is a single entry in the ledger.
//
// The amount sign carries the direction: positive amounts are money coming
// in, negative amounts are money going out. Transactions are never updated
// in place by the ledger, corrections append a compensating transaction.
type Transaction struct {
	DefaultModel
	Date          time.Time       `json:"date" example:"2024-03-12T00:00:00Z"`                             // Date of the transaction. Time is only used for sorting
	Amount        decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03"`                // Signed amount, must not be zero
	Category      Category        `json:"category" gorm:"index" example:"expense"`                         // One of income, expense, savings, investment, debt
	Note          string          `json:"note" example:"Lunch"`                                            // A note
	Recurring     bool            `json:"recurring" example:"false" default:"false"`                       // Whether this transaction recurs regularly
	AttachmentRef string          `json:"attachmentRef" example:"receipts/2024/03/lunch.pdf" default:""`   // Reference to an attached document
	GoalID        *uuid.UUID      `json:"goalId" example:"2649c965-7999-4873-ae16-89d5d5fa972e"`           // ID of the savings goal this transaction contributes to
	Goal          *SavingsGoal    `json:"-"`
}

var (
	ErrTransactionAmountZero = errors.New("transaction amounts must not be zero")
	ErrCategoryInvalid       = errors.New("the transaction category is not recognized")
)

// BeforeSave sets the timezone for the Date to UTC and trims string fields.
func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	t.Note = strings.TrimSpace(t.Note)
	t.AttachmentRef = strings.TrimSpace(t.AttachmentRef)

	return nil
}

// BeforeCreate verifies references to other resources.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	if t.GoalID != nil {
		return tx.First(&SavingsGoal{}, "id = ?", *t.GoalID).Error
	}

	return nil
}

// AfterSave enforces the transaction invariants. Returning an error here
// rolls back the surrounding database transaction, so invalid transactions
// never become visible.
func (t *Transaction) AfterSave(_ *gorm.DB) error {
	if t.Amount.IsZero() {
		return ErrTransactionAmountZero
	}

	if !t.Category.Valid() {
		return ErrCategoryInvalid
	}

	return nil
}
