package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/desweal/backend/internal/controllers/v1"
	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCleanup() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Emergency fund"})
	_ = suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})
	_ = suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "*",
		Category: models.CategoryExpense,
	})
	_ = suite.createTestTransaction(suite.T(), v1.TransactionEditable{
		Amount: decimal.NewFromInt(600),
		GoalID: &goal.Data.ID,
	})

	r := test.Request(suite.controller, suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// No resources are left, not even soft-deleted ones
	for _, model := range []any{
		&models.Transaction{},
		&models.CategoryRule{},
		&models.SchemeBucket{},
		&models.DistributionScheme{},
		&models.SavingsGoal{},
	} {
		var count int64
		err := models.DB.Unscoped().Model(model).Count(&count).Error
		suite.Assert().Nil(err)
		suite.Assert().Equal(int64(0), count, "Leftover resources for %T", model)
	}
}

func (suite *TestSuiteStandard) TestCleanupConfirmation() {
	tests := []struct {
		name  string
		query string
	}{
		{"No confirmation", ""},
		{"Wrong confirmation", "confirm=yes-please-delete"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_ = suite.createTestGoal(t, v1.GoalEditable{})

			r := test.Request(suite.controller, t, http.MethodDelete, "http://example.com/v1?"+tt.query, "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			// Nothing is deleted
			var count int64
			assert.Nil(t, models.DB.Model(&models.SavingsGoal{}).Count(&count).Error)
			assert.NotZero(t, count)
		})
	}
}
