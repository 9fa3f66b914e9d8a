package v1

import (
	"fmt"

	"github.com/desweal/backend/internal/distribution"
	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SchemeBucketEditable struct {
	Name       string          `json:"name" example:"needs"`
	Percentage decimal.Decimal `json:"percentage" example:"50" minimum:"0" maximum:"100"`
	Position   uint            `json:"position" example:"0"` // Order of the bucket within the scheme
}

type SchemeEditable struct {
	Name    string                 `json:"name" example:"Aggressive saving"`
	Note    string                 `json:"note" example:"For the months after the bonus payment" default:""`
	Buckets []SchemeBucketEditable `json:"buckets"`
}

// model returns the database resource for the API representation of the editable fields
func (editable SchemeEditable) model() models.DistributionScheme {
	buckets := make([]models.SchemeBucket, 0, len(editable.Buckets))
	for _, bucket := range editable.Buckets {
		buckets = append(buckets, models.SchemeBucket{
			Name:       bucket.Name,
			Percentage: bucket.Percentage,
			Position:   bucket.Position,
		})
	}

	return models.DistributionScheme{
		Name:    editable.Name,
		Note:    editable.Note,
		Buckets: buckets,
	}
}

type SchemeLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/schemes/d430d7c3-d14c-4712-9336-ee56965a6673"`          // The scheme itself
	Allocate string `json:"allocate" example:"https://example.com/api/v1/schemes/d430d7c3-d14c-4712-9336-ee56965a6673/allocate"` // Allocate an income amount with this scheme
}

// Scheme is the representation of a DistributionScheme in API v1.
type Scheme struct {
	models.DefaultModel
	SchemeEditable
	Links SchemeLinks `json:"links"`
}

// newScheme returns the API v1 representation of the resource
func newScheme(c *gin.Context, model models.DistributionScheme) Scheme {
	url := c.GetString(string(models.DBContextURL))

	buckets := make([]SchemeBucketEditable, 0, len(model.Buckets))
	for _, bucket := range model.Buckets {
		buckets = append(buckets, SchemeBucketEditable{
			Name:       bucket.Name,
			Percentage: bucket.Percentage,
			Position:   bucket.Position,
		})
	}

	return Scheme{
		DefaultModel: model.DefaultModel,
		SchemeEditable: SchemeEditable{
			Name:    model.Name,
			Note:    model.Note,
			Buckets: buckets,
		},
		Links: SchemeLinks{
			Self:     fmt.Sprintf("%s/v1/schemes/%s", url, model.ID),
			Allocate: fmt.Sprintf("%s/v1/schemes/%s/allocate", url, model.ID),
		},
	}
}

type SchemeListResponse struct {
	Data       []Scheme    `json:"data"`                                                          // List of schemes
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type SchemeCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []SchemeResponse `json:"data"`                                                          // List of created schemes
}

func (s *SchemeCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, SchemeResponse{Error: &e})

	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SchemeResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this scheme
	Data  *Scheme `json:"data"`                                                          // The scheme data, if creation was successful
}

// SchemePresetsResponse contains the built-in distribution schemes.
type SchemePresetsResponse struct {
	Data []distribution.Scheme `json:"data"` // The built-in schemes
}

// AllocationResponse contains the result of applying a scheme to an income amount.
type AllocationResponse struct {
	Data  []distribution.Allocation `json:"data"`                                             // The amount per bucket
	Error *string                   `json:"error" example:"the income amount must be positive"` // The error, if any occurred
}

// SchemeValidationResponse reports whether a scheme is a valid distribution.
type SchemeValidationResponse struct {
	Valid bool    `json:"valid" example:"true"`
	Error *string `json:"error" example:"bucket percentages must sum to exactly 100"` // The violated invariant, if any
}

type SchemeQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Filter by name
	Note   string `form:"note" filterField:"false"`   // Filter by note
	Search string `form:"search" filterField:"false"` // Search for this text in name and note
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first scheme returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of schemes to return. Defaults to 50.
}
