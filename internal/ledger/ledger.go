// Package ledger implements the authoritative transaction history.
//
// The ledger is append-mostly: transactions are created, optionally
// soft-deleted, but never mutated in place. Corrections are modeled as
// compensating transactions.
package ledger

import (
	"iter"
	"sync"
	"time"

	"github.com/desweal/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger owns the transaction history and provides aggregate queries.
//
// Append and SoftDelete serialize through a per-instance mutex so that
// aggregate recomputation always observes a consistent snapshot. Reads
// can run concurrently with each other.
type Ledger struct {
	db      *gorm.DB
	writeMu sync.Mutex
}

// New returns a Ledger working on the given database.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Append validates the transaction and adds it to the ledger.
//
// A transaction without a category is run through the category rules
// first. Validation failures leave the ledger unchanged.
func (l *Ledger) Append(transaction *models.Transaction) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	// Fail fast before touching the database. The model hooks check the
	// same invariants again inside the database transaction.
	if transaction.Amount.IsZero() {
		return models.ErrTransactionAmountZero
	}

	if transaction.Category == "" {
		category, err := l.categoryForNote(transaction.Note)
		if err != nil {
			return err
		}
		transaction.Category = category
	}

	if !transaction.Category.Valid() {
		return models.ErrCategoryInvalid
	}

	return l.db.Create(transaction).Error
}

// categoryForNote returns the category of the highest-priority rule
// matching the note.
func (l *Ledger) categoryForNote(note string) (models.Category, error) {
	var rules []models.CategoryRule
	err := l.db.Order("priority ASC, created_at ASC").Find(&rules).Error
	if err != nil {
		return "", err
	}

	for _, rule := range rules {
		if rule.Matches(note) {
			return rule.Category, nil
		}
	}

	return "", models.ErrCategoryInvalid
}

// SoftDelete marks a transaction as deleted without removing it.
//
// Deleting a transaction that is already soft-deleted is a no-op.
// Unknown IDs return a not-found error.
func (l *Ledger) SoftDelete(id uuid.UUID) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	var transaction models.Transaction
	err := l.db.Unscoped().First(&transaction, "id = ?", id).Error
	if err != nil {
		return err
	}

	if transaction.DeletedAt != nil && transaction.DeletedAt.Valid {
		return nil
	}

	return l.db.Delete(&transaction).Error
}

// TotalsByCategory sums the amounts of all non-deleted transactions per
// category. Both ends of the date range are optional; from is inclusive,
// until is exclusive.
func (l *Ledger) TotalsByCategory(from, until *time.Time) (map[models.Category]decimal.Decimal, error) {
	q := l.db.Model(&models.Transaction{}).
		Select("category, SUM(amount)").
		Group("category")

	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if until != nil {
		q = q.Where("date < ?", *until)
	}

	rows, err := q.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[models.Category]decimal.Decimal)
	for rows.Next() {
		var category models.Category
		var sum decimal.NullDecimal

		if err := rows.Scan(&category, &sum); err != nil {
			return nil, err
		}

		totals[category] = sum.Decimal
	}

	return totals, rows.Err()
}

// Filter restricts the transactions returned by Transactions.
type Filter struct {
	Category  models.Category
	From      *time.Time
	Until     *time.Time
	Recurring *bool
	GoalID    *uuid.UUID
	Note      string // substring match on the note
}

// batchSize is the number of transactions fetched from the database at
// once while iterating.
const batchSize = 100

// query builds a fresh filtered query. Each batch needs its own query as
// gorm accumulates clauses on reuse.
func (l *Ledger) query(filter Filter) *gorm.DB {
	q := l.db.Model(&models.Transaction{}).Order("date DESC, id ASC")

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.Until != nil {
		q = q.Where("date < ?", *filter.Until)
	}
	if filter.Recurring != nil {
		q = q.Where("recurring = ?", *filter.Recurring)
	}
	if filter.GoalID != nil {
		q = q.Where("goal_id = ?", *filter.GoalID)
	}
	if filter.Note != "" {
		q = q.Where("note LIKE ?", "%"+filter.Note+"%")
	}

	return q
}

// Transactions returns the non-deleted transactions matching the filter,
// ordered by date descending.
//
// The sequence is evaluated lazily in batches and can be ranged over
// multiple times; every iteration starts a fresh query.
func (l *Ledger) Transactions(filter Filter) iter.Seq2[models.Transaction, error] {
	return func(yield func(models.Transaction, error) bool) {
		for offset := 0; ; offset += batchSize {
			var batch []models.Transaction
			err := l.query(filter).Offset(offset).Limit(batchSize).Find(&batch).Error
			if err != nil {
				yield(models.Transaction{}, err)
				return
			}

			for _, transaction := range batch {
				if !yield(transaction, nil) {
					return
				}
			}

			if len(batch) < batchSize {
				return
			}
		}
	}
}

// Count returns the number of non-deleted transactions in the ledger.
func (l *Ledger) Count() (int64, error) {
	var count int64
	err := l.db.Model(&models.Transaction{}).Count(&count).Error
	return count, err
}

// CountMatching returns the number of non-deleted transactions matching
// the filter.
func (l *Ledger) CountMatching(filter Filter) (int64, error) {
	var count int64
	err := l.query(filter).Count(&count).Error
	return count, err
}
