package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/desweal/backend/internal/controllers/v1"
	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestGoal creates a test goal via the v1 API.
func (suite *TestSuiteStandard) createTestGoal(t *testing.T, goal v1.GoalEditable, expectedStatus ...int) v1.GoalResponse {
	if goal.Name == "" {
		goal.Name = uuid.New().String()
	}

	if goal.TargetAmount.IsZero() {
		goal.TargetAmount = decimal.NewFromInt(1000)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.GoalEditable{goal}

	r := test.Request(suite.controller, t, http.MethodPost, "http://example.com/v1/goals", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var gr v1.GoalCreateResponse
	test.DecodeResponse(t, &r, &gr)

	return gr.Data[0]
}

func (suite *TestSuiteStandard) TestGoalsCreate() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Emergency fund"})
	suite.Assert().NotEqual(uuid.Nil, goal.Data.ID)
}

func (suite *TestSuiteStandard) TestGoalsCreateInvalidTarget() {
	r := test.Request(suite.controller, suite.T(), http.MethodPost, "http://example.com/v1/goals", []v1.GoalEditable{
		{Name: "No target"},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var gr v1.GoalCreateResponse
	test.DecodeResponse(suite.T(), &r, &gr)
	suite.Assert().Equal(models.ErrGoalTargetNotPositive.Error(), *gr.Data[0].Error)
}

func (suite *TestSuiteStandard) TestGoalsCreateDuplicateName() {
	_ = suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Emergency fund"})
	_ = suite.createTestGoal(suite.T(), v1.GoalEditable{
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(500),
	}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGoalsGetFilter() {
	_ = suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Emergency fund"})
	_ = suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Vacation", Archived: true})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 2},
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 1},
		{"Name", "name=Emergency", 1},
		{"Search", "search=vaca", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodGet, fmt.Sprintf("http://example.com/v1/goals?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.GoalListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestGoalsUpdate() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Emergency fund"})

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, goal.Data.Links.Self, map[string]any{
		"targetAmount": 2000,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.TargetAmount.Equal(decimal.NewFromInt(2000)))
}

func (suite *TestSuiteStandard) TestGoalsUpdateArchived() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Done", Archived: true})

	// Archived goals reject all updates
	r := test.Request(suite.controller, suite.T(), http.MethodPatch, goal.Data.Links.Self, map[string]any{
		"note": "New note",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.GoalResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.ErrGoalArchived.Error(), *response.Error)

	// Unarchiving is rejected as well
	r = test.Request(suite.controller, suite.T(), http.MethodPatch, goal.Data.Links.Self, map[string]any{
		"archived": false,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGoalsDelete() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{Name: "Emergency fund"})

	r := test.Request(suite.controller, suite.T(), http.MethodDelete, goal.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, goal.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGoalsProgress() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
	})

	_ = suite.createTestTransaction(suite.T(), v1.TransactionEditable{
		Amount:   decimal.NewFromInt(600),
		Category: models.CategorySavings,
		GoalID:   &goal.Data.ID,
		Date:     time.Now(),
	})

	r := test.Request(suite.controller, suite.T(), http.MethodGet, goal.Data.Links.Progress, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalProgressResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().True(response.Data.Progress.Progress.Equal(decimal.NewFromInt(600)), "Progress is %s", response.Data.Progress.Progress)
	suite.Assert().False(response.Data.Completed)

	// A single contribution in the current month yields no trailing
	// velocity, the projection is indeterminate
	suite.Assert().Nil(response.Data.ProjectedCompletion)
}

func (suite *TestSuiteStandard) TestGoalsProgressCompleted() {
	goal := suite.createTestGoal(suite.T(), v1.GoalEditable{
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
	})

	_ = suite.createTestTransaction(suite.T(), v1.TransactionEditable{
		Amount:   decimal.NewFromInt(1200),
		Category: models.CategorySavings,
		GoalID:   &goal.Data.ID,
	})

	r := test.Request(suite.controller, suite.T(), http.MethodGet, goal.Data.Links.Progress, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.GoalProgressResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().True(response.Data.Completed)
	suite.Assert().True(response.Data.Progress.Progress.Equal(decimal.NewFromInt(1000)))
	suite.Assert().True(response.Data.Raw.Equal(decimal.NewFromInt(1200)))
	suite.Assert().NotNil(response.Data.ProjectedCompletion)
}

func (suite *TestSuiteStandard) TestGoalsProgressNonexistent() {
	r := test.Request(suite.controller, suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/goals/%s/progress", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
