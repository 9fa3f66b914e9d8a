package v1

import (
	"fmt"
	"time"

	"github.com/desweal/backend/internal/goals"
	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type GoalEditable struct {
	Name         string          `json:"name" example:"Emergency fund"`
	Note         string          `json:"note" example:"Three months of expenses" default:""`
	TargetAmount decimal.Decimal `json:"targetAmount" example:"1000" minimum:"0.00000001"` // The target for the goal, must be positive
	TargetDate   *time.Time      `json:"targetDate" example:"2025-06-01T00:00:00Z"`        // Optional date by which the goal should be reached
	Archived     bool            `json:"archived" example:"false" default:"false"`
}

// model returns the database resource for the API representation of the editable fields
func (editable GoalEditable) model() models.SavingsGoal {
	return models.SavingsGoal{
		Name:         editable.Name,
		Note:         editable.Note,
		TargetAmount: editable.TargetAmount,
		TargetDate:   editable.TargetDate,
		Archived:     editable.Archived,
	}
}

type GoalLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/goals/d430d7c3-d14c-4712-9336-ee56965a6673"`          // The goal itself
	Progress string `json:"progress" example:"https://example.com/api/v1/goals/d430d7c3-d14c-4712-9336-ee56965a6673/progress"` // The progress of the goal
}

// Goal is the representation of a SavingsGoal in API v1.
type Goal struct {
	models.DefaultModel
	GoalEditable
	Links GoalLinks `json:"links"`
}

// newGoal returns the API v1 representation of the resource
func newGoal(c *gin.Context, model models.SavingsGoal) Goal {
	url := c.GetString(string(models.DBContextURL))

	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: GoalEditable{
			Name:         model.Name,
			Note:         model.Note,
			TargetAmount: model.TargetAmount,
			TargetDate:   model.TargetDate,
			Archived:     model.Archived,
		},
		Links: GoalLinks{
			Self:     fmt.Sprintf("%s/v1/goals/%s", url, model.ID),
			Progress: fmt.Sprintf("%s/v1/goals/%s/progress", url, model.ID),
		},
	}
}

type GoalListResponse struct {
	Data       []Goal      `json:"data"`                                                          // List of goals
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type GoalCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GoalResponse `json:"data"`                                                          // List of created goals
}

func (g *GoalCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	g.Data = append(g.Data, GoalResponse{Error: &e})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GoalResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this goal
	Data  *Goal   `json:"data"`                                                          // The goal data, if creation was successful
}

// GoalProgress is the progress of a goal including the completion projection.
type GoalProgress struct {
	goals.Progress
	ProjectedCompletion *types.Month `json:"projectedCompletion" example:"2025-03-01T00:00:00Z"` // The month in which the goal is projected to complete, null if indeterminate
}

type GoalProgressResponse struct {
	Data  *GoalProgress `json:"data"`                                                          // The progress of the goal
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type GoalQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // Filter by name
	Note     string `form:"note" filterField:"false"`   // Filter by note
	Search   string `form:"search" filterField:"false"` // Search for this text in name and note
	Archived bool   `form:"archived"`                   // Is the goal archived?
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first goal returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of goals to return. Defaults to 50.
}

func (f GoalQueryFilter) model() models.SavingsGoal {
	return models.SavingsGoal{
		Archived: f.Archived,
	}
}
