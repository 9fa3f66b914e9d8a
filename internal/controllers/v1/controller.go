// Package v1 implements the v1 API of the DESWEAL backend.
package v1

import (
	"github.com/desweal/backend/internal/goals"
	"github.com/desweal/backend/internal/ledger"
	"gorm.io/gorm"
)

// Controller bundles the domain collaborators the handlers work with.
// It is passed explicitly instead of living in a package global so that
// tests and alternative wirings can provide their own.
type Controller struct {
	Ledger  *ledger.Ledger
	Tracker *goals.Tracker
}

// NewController returns a Controller with all collaborators constructed
// on the given database.
func NewController(db *gorm.DB) Controller {
	return Controller{
		Ledger:  ledger.New(db),
		Tracker: goals.NewTracker(db),
	}
}
