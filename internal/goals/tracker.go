// Package goals computes savings goal progress from ledger aggregates.
package goals

import (
	"time"

	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tracker derives goal progress and completion projections from the
// transactions in the database.
type Tracker struct {
	db *gorm.DB
}

// NewTracker returns a Tracker working on the given database.
func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// Progress is the state of a savings goal derived from the ledger.
type Progress struct {
	Progress  decimal.Decimal `json:"progress" example:"750"`  // Contributions, clamped to the target amount for display
	Raw       decimal.Decimal `json:"raw" example:"750"`       // Contributions without clamping, may exceed the target
	Completed bool            `json:"completed" example:"false"`
}

// Progress sums the contributions towards the goal.
//
// Transactions tagged with the goal's ID count as contributions. For goals
// without any tagged transactions, all savings transactions between the
// goal's creation month and its target month count instead.
func (t *Tracker) Progress(goal models.SavingsGoal) (Progress, error) {
	raw, err := t.contributions(goal, nil, nil)
	if err != nil {
		return Progress{}, err
	}

	clamped := raw
	if clamped.GreaterThan(goal.TargetAmount) {
		clamped = goal.TargetAmount
	}

	return Progress{
		Progress:  clamped,
		Raw:       raw,
		Completed: raw.GreaterThanOrEqual(goal.TargetAmount),
	}, nil
}

// ProjectedCompletion extrapolates the month in which the goal will be
// reached from the average contribution over the three full months before
// now. The current month is excluded as it is still incomplete.
//
// The return value is nil when the projection is indeterminate, that is
// when the trailing contribution velocity is not positive.
func (t *Tracker) ProjectedCompletion(goal models.SavingsGoal, now time.Time) (*types.Month, error) {
	progress, err := t.Progress(goal)
	if err != nil {
		return nil, err
	}

	current := types.MonthOf(now)
	if progress.Completed {
		return &current, nil
	}

	total := decimal.Zero
	for offset := -3; offset < 0; offset++ {
		month := current.AddDate(0, offset)
		from := month.FirstDay()
		until := month.AddDate(0, 1).FirstDay()

		sum, err := t.contributions(goal, &from, &until)
		if err != nil {
			return nil, err
		}

		total = total.Add(sum)
	}

	velocity := total.Div(decimal.NewFromInt(3))
	if !velocity.IsPositive() {
		return nil, nil
	}

	remaining := goal.TargetAmount.Sub(progress.Raw)
	monthsNeeded := remaining.Div(velocity).Ceil().IntPart()

	projected := current.AddDate(0, int(monthsNeeded))
	return &projected, nil
}

// contributions sums the non-deleted transactions contributing to the
// goal, restricted to the optional date range.
func (t *Tracker) contributions(goal models.SavingsGoal, from, until *time.Time) (decimal.Decimal, error) {
	tagged, err := t.hasTagged(goal)
	if err != nil {
		return decimal.Zero, err
	}

	q := t.db.Model(&models.Transaction{})

	if tagged {
		q = q.Where("goal_id = ?", goal.ID)
	} else {
		// Fall back to the savings category within the goal's active window
		q = q.Where("category = ?", models.CategorySavings).
			Where("date >= ?", types.MonthOf(goal.CreatedAt).FirstDay())

		if goal.TargetDate != nil {
			q = q.Where("date < ?", types.MonthOf(*goal.TargetDate).AddDate(0, 1).FirstDay())
		}
	}

	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if until != nil {
		q = q.Where("date < ?", *until)
	}

	var sum decimal.NullDecimal
	err = q.Select("SUM(amount)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum.Decimal, nil
}

// hasTagged reports whether any transaction, deleted or not, has ever been
// tagged with the goal. A goal that uses tagging keeps using it even when
// all tagged transactions are deleted.
func (t *Tracker) hasTagged(goal models.SavingsGoal) (bool, error) {
	var count int64
	err := t.db.Model(&models.Transaction{}).Unscoped().Where("goal_id = ?", goal.ID).Count(&count).Error
	return count > 0, err
}
