package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsGoal is a target amount the user saves towards.
//
// Completion is derived from ledger aggregates, see the goals package.
// A goal can be archived at any time; archiving is one-way.
type SavingsGoal struct {
	DefaultModel
	Name         string          `json:"name" gorm:"uniqueIndex:savings_goal_name" example:"Emergency fund"`
	Note         string          `json:"note" example:"Three months of expenses"`
	TargetAmount decimal.Decimal `json:"targetAmount" gorm:"type:DECIMAL(20,8)" example:"1000"` // The target for the goal, must be positive
	TargetDate   *time.Time      `json:"targetDate" example:"2025-06-01T00:00:00Z"`             // Optional date by which the goal should be reached
	Archived     bool            `json:"archived" example:"false" default:"false"`
}

var (
	ErrGoalTargetNotPositive = errors.New("savings goal targets must be larger than zero")
	ErrGoalArchived          = errors.New("archived goals cannot be modified")
	ErrGoalNameNotUnique     = errors.New("the savings goal name must be unique")
)

// BeforeSave trims whitespace from all strings.
func (g *SavingsGoal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	return nil
}

// BeforeUpdate rejects all updates to archived goals. There is no
// transition out of the archived state.
func (g *SavingsGoal) BeforeUpdate(_ *gorm.DB) error {
	if g.Archived {
		return ErrGoalArchived
	}

	return nil
}

func (g *SavingsGoal) AfterSave(_ *gorm.DB) error {
	if !g.TargetAmount.IsPositive() {
		return ErrGoalTargetNotPositive
	}

	return nil
}
