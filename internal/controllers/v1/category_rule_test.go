package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/desweal/backend/internal/controllers/v1"
	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestCategoryRule creates a test category rule via the v1 API.
func (suite *TestSuiteStandard) createTestCategoryRule(t *testing.T, rule v1.CategoryRuleEditable, expectedStatus ...int) v1.CategoryRuleResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.CategoryRuleEditable{rule}

	r := test.Request(suite.controller, t, http.MethodPost, "http://example.com/v1/category-rules", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var rr v1.CategoryRuleCreateResponse
	test.DecodeResponse(t, &r, &rr)

	return rr.Data[0]
}

func (suite *TestSuiteStandard) TestCategoryRulesCreate() {
	rule := suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "Supermarket*",
		Category: models.CategoryExpense,
	})

	suite.Assert().NotEqual(uuid.Nil, rule.Data.ID)
}

func (suite *TestSuiteStandard) TestCategoryRulesCreateDuplicateMatch() {
	_ = suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "Supermarket*",
		Category: models.CategoryExpense,
	})

	_ = suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 2,
		Match:    "Supermarket*",
		Category: models.CategoryExpense,
	}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCategoryRulesGet() {
	_ = suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 2,
		Match:    "*",
		Category: models.CategoryExpense,
	})

	_ = suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "Salary*",
		Category: models.CategoryIncome,
	})

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/category-rules", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryRuleListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)

	// Rules are returned in priority order
	suite.Assert().Equal("Salary*", response.Data[0].Match)
}

func (suite *TestSuiteStandard) TestCategoryRulesUpdate() {
	rule := suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "Supermarket*",
		Category: models.CategoryExpense,
	})

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, rule.Data.Links.Self, map[string]any{
		"match": "Grocery*",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CategoryRuleResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Grocery*", response.Data.Match)
}

func (suite *TestSuiteStandard) TestCategoryRulesDelete() {
	rule := suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "Supermarket*",
		Category: models.CategoryExpense,
	})

	r := test.Request(suite.controller, suite.T(), http.MethodDelete, rule.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, rule.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCategoryRulesDeleteNonexistent() {
	r := test.Request(suite.controller, suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/category-rules/%s", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestCategoryRulesApplied verifies that transactions created without a
// category get one assigned from the rules.
func (suite *TestSuiteStandard) TestCategoryRulesApplied() {
	_ = suite.createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{
		Priority: 1,
		Match:    "Salary*",
		Category: models.CategoryIncome,
	})

	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{
		{Amount: decimal.NewFromInt(2500), Note: "Salary March"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var tr v1.TransactionCreateResponse
	test.DecodeResponse(suite.T(), &r, &tr)
	suite.Assert().Equal(models.CategoryIncome, tr.Data[0].Data.Category)

	// A transaction no rule matches is rejected
	r = test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{
		{Amount: decimal.NewFromInt(-10), Note: "Lunch"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	test.DecodeResponse(suite.T(), &r, &tr)
	assert.Equal(suite.T(), models.ErrCategoryInvalid.Error(), *tr.Data[0].Error)
}
