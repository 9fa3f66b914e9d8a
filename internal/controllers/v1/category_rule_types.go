package v1

import (
	"fmt"

	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type CategoryRuleEditable struct {
	Priority uint            `json:"priority" example:"1"`               // The priority of the rule, lower number means higher priority
	Match    string          `json:"match" example:"Supermarket*"`       // The glob the transaction note is matched against
	Category models.Category `json:"category" example:"expense"`         // The category assigned on match
}

// model returns the database resource for the API representation of the editable fields
func (editable CategoryRuleEditable) model() models.CategoryRule {
	return models.CategoryRule{
		Priority: editable.Priority,
		Match:    editable.Match,
		Category: editable.Category,
	}
}

type CategoryRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/category-rules/d430d7c3-d14c-4712-9336-ee56965a6673"` // The category rule itself
}

// CategoryRule is the representation of a CategoryRule in API v1.
type CategoryRule struct {
	models.DefaultModel
	CategoryRuleEditable
	Links CategoryRuleLinks `json:"links"`
}

// newCategoryRule returns the API v1 representation of the resource
func newCategoryRule(c *gin.Context, model models.CategoryRule) CategoryRule {
	url := c.GetString(string(models.DBContextURL))

	return CategoryRule{
		DefaultModel: model.DefaultModel,
		CategoryRuleEditable: CategoryRuleEditable{
			Priority: model.Priority,
			Match:    model.Match,
			Category: model.Category,
		},
		Links: CategoryRuleLinks{
			Self: fmt.Sprintf("%s/v1/category-rules/%s", url, model.ID),
		},
	}
}

type CategoryRuleListResponse struct {
	Data       []CategoryRule `json:"data"`                                                          // List of category rules
	Error      *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination    `json:"pagination"`                                                    // Pagination information
}

type CategoryRuleCreateResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []CategoryRuleResponse `json:"data"`                                                          // List of created category rules
}

func (r *CategoryRuleCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	r.Data = append(r.Data, CategoryRuleResponse{Error: &e})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CategoryRuleResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this category rule
	Data  *CategoryRule `json:"data"`                                                          // The category rule data, if creation was successful
}

type CategoryRuleQueryFilter struct {
	Match    string `form:"match" filterField:"false"`  // Filter by match
	Category string `form:"category"`                   // Filter by category
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first rule returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of rules to return. Defaults to 50.
}

func (f CategoryRuleQueryFilter) model() models.CategoryRule {
	return models.CategoryRule{
		Category: models.Category(f.Category),
	}
}
