package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/desweal/backend/internal/controllers/v1"
	"github.com/desweal/backend/internal/distribution"
	"github.com/desweal/backend/internal/models"
	"github.com/desweal/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// createTestScheme creates a test scheme via the v1 API.
func (suite *TestSuiteStandard) createTestScheme(t *testing.T, scheme v1.SchemeEditable, expectedStatus ...int) v1.SchemeResponse {
	if scheme.Name == "" {
		scheme.Name = uuid.New().String()
	}

	if len(scheme.Buckets) == 0 {
		scheme.Buckets = []v1.SchemeBucketEditable{
			{Name: "needs", Percentage: decimal.NewFromInt(50), Position: 0},
			{Name: "wants", Percentage: decimal.NewFromInt(30), Position: 1},
			{Name: "savings", Percentage: decimal.NewFromInt(20), Position: 2},
		}
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	reqBody := []v1.SchemeEditable{scheme}

	r := test.Request(suite.controller, t, http.MethodPost, "http://example.com/v1/schemes", reqBody)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var sr v1.SchemeCreateResponse
	test.DecodeResponse(t, &r, &sr)

	return sr.Data[0]
}

func (suite *TestSuiteStandard) TestSchemesCreate() {
	scheme := suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})

	suite.Assert().NotEqual(uuid.Nil, scheme.Data.ID)
	suite.Assert().Len(scheme.Data.Buckets, 3)
}

func (suite *TestSuiteStandard) TestSchemesCreateInvalid() {
	tests := []struct {
		name    string
		buckets []v1.SchemeBucketEditable
		err     error
	}{
		{
			"No buckets",
			[]v1.SchemeBucketEditable{},
			distribution.ErrSchemeEmpty,
		},
		{
			"Sum not 100",
			[]v1.SchemeBucketEditable{
				{Name: "needs", Percentage: decimal.NewFromInt(50)},
			},
			distribution.ErrPercentageSum,
		},
		{
			"Negative percentage",
			[]v1.SchemeBucketEditable{
				{Name: "needs", Percentage: decimal.NewFromInt(120)},
				{Name: "wants", Percentage: decimal.NewFromInt(-20)},
			},
			distribution.ErrNegativePercentage,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodPost, "http://example.com/v1/schemes", []v1.SchemeEditable{
				{Name: tt.name, Buckets: tt.buckets},
			})
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var sr v1.SchemeCreateResponse
			test.DecodeResponse(t, &r, &sr)
			assert.Contains(t, *sr.Data[0].Error, tt.err.Error())
		})
	}
}

func (suite *TestSuiteStandard) TestSchemesGet() {
	_ = suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})
	_ = suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Aggressive saving"})

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/schemes", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SchemeListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 2)

	// Ordered by name
	suite.Assert().Equal("Aggressive saving", response.Data[0].Name)

	// Buckets are included
	suite.Assert().Len(response.Data[0].Buckets, 3)
}

func (suite *TestSuiteStandard) TestSchemesGetSearch() {
	_ = suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default", Note: "The usual"})
	_ = suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Aggressive saving"})

	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/schemes?search=usual", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SchemeListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Default", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestSchemesUpdate() {
	scheme := suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, scheme.Data.Links.Self, map[string]any{
		"note": "Updated note",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SchemeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("Updated note", response.Data.Note)
}

func (suite *TestSuiteStandard) TestSchemesUpdateBucketsImmutable() {
	scheme := suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})

	r := test.Request(suite.controller, suite.T(), http.MethodPatch, scheme.Data.Links.Self, map[string]any{
		"note": "Tried to change the buckets",
		"buckets": []v1.SchemeBucketEditable{
			{Name: "everything", Percentage: decimal.NewFromInt(100)},
		},
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// The buckets are unchanged
	r = test.Request(suite.controller, suite.T(), http.MethodGet, scheme.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SchemeResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data.Buckets, 3)
}

func (suite *TestSuiteStandard) TestSchemesDelete() {
	scheme := suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})

	r := test.Request(suite.controller, suite.T(), http.MethodDelete, scheme.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.controller, suite.T(), http.MethodGet, scheme.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	// The buckets are deleted with the scheme
	var count int64
	suite.Require().Nil(models.DB.Model(&models.SchemeBucket{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestSchemesPresets() {
	r := test.Request(suite.controller, suite.T(), http.MethodGet, "http://example.com/v1/schemes/presets", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SchemePresetsResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 3)
	suite.Assert().Equal("50/30/20", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestSchemesValidate() {
	tests := []struct {
		name    string
		buckets []distribution.Bucket
		valid   bool
	}{
		{
			"Valid",
			[]distribution.Bucket{
				{Name: "needs", Percentage: decimal.NewFromInt(50)},
				{Name: "wants", Percentage: decimal.NewFromInt(50)},
			},
			true,
		},
		{
			"Invalid",
			[]distribution.Bucket{
				{Name: "needs", Percentage: decimal.NewFromInt(50)},
			},
			false,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(suite.controller, t, http.MethodPost, "http://example.com/v1/schemes/validate", distribution.Scheme{
				Name:    tt.name,
				Buckets: tt.buckets,
			})
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.SchemeValidationResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.valid, response.Valid)

			if !tt.valid {
				assert.NotNil(t, response.Error)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestSchemesAllocate() {
	scheme := suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})

	r := test.Request(suite.controller, suite.T(), http.MethodPost, scheme.Data.Links.Allocate, v1.AllocationRequest{
		Amount: decimal.NewFromInt(2000),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 3)

	suite.Assert().Equal("needs", response.Data[0].Bucket)
	suite.Assert().True(response.Data[0].Amount.Equal(decimal.NewFromInt(1000)), "Allocation is %s", response.Data[0].Amount)

	// The allocations sum to the income
	sum := decimal.Zero
	for _, allocation := range response.Data {
		sum = sum.Add(allocation.Amount)
	}
	suite.Assert().True(sum.Equal(decimal.NewFromInt(2000)))
}

func (suite *TestSuiteStandard) TestSchemesAllocateInvalidAmount() {
	scheme := suite.createTestScheme(suite.T(), v1.SchemeEditable{Name: "Default"})

	for _, body := range []string{`{ "amount": 0 }`, `{ "amount": -100 }`, `{}`} {
		r := test.Request(suite.controller, suite.T(), http.MethodPost, scheme.Data.Links.Allocate, body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestSchemesAllocateNonexistent() {
	r := test.Request(suite.controller, suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/schemes/%s/allocate", uuid.New()), v1.AllocationRequest{
		Amount: decimal.NewFromInt(2000),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
