package models_test

import (
	"github.com/desweal/backend/internal/distribution"
	"github.com/desweal/backend/internal/models"
	"github.com/shopspring/decimal"
)

// createTestScheme creates a scheme with a valid set of buckets.
func (suite *TestSuiteStandard) createTestScheme(scheme models.DistributionScheme) models.DistributionScheme {
	if len(scheme.Buckets) == 0 {
		scheme.Buckets = []models.SchemeBucket{
			{Name: "needs", Percentage: decimal.NewFromInt(50), Position: 0},
			{Name: "wants", Percentage: decimal.NewFromInt(30), Position: 1},
			{Name: "savings", Percentage: decimal.NewFromInt(20), Position: 2},
		}
	}

	err := models.DB.Create(&scheme).Error
	if err != nil {
		suite.Assert().FailNow("Scheme could not be created", "Error: %s, Scheme: %#v", err, scheme)
	}

	return scheme
}

func (suite *TestSuiteStandard) TestSchemeCreate() {
	scheme := suite.createTestScheme(models.DistributionScheme{Name: "Default"})

	var reloaded models.DistributionScheme
	err := models.DB.Preload("Buckets").First(&reloaded, "id = ?", scheme.ID).Error
	suite.Require().Nil(err)
	suite.Assert().Len(reloaded.Buckets, 3)
}

func (suite *TestSuiteStandard) TestSchemePercentageSum() {
	err := models.DB.Create(&models.DistributionScheme{
		Name: "Unbalanced",
		Buckets: []models.SchemeBucket{
			{Name: "needs", Percentage: decimal.NewFromInt(50)},
			{Name: "wants", Percentage: decimal.NewFromInt(30)},
		},
	}).Error
	suite.Assert().ErrorIs(err, distribution.ErrPercentageSum)

	// The rollback also removes the buckets
	var count int64
	suite.Require().Nil(models.DB.Model(&models.SchemeBucket{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestSchemeNegativePercentage() {
	err := models.DB.Create(&models.DistributionScheme{
		Name: "Negative",
		Buckets: []models.SchemeBucket{
			{Name: "needs", Percentage: decimal.NewFromInt(120)},
			{Name: "wants", Percentage: decimal.NewFromInt(-20)},
		},
	}).Error
	suite.Assert().ErrorIs(err, distribution.ErrNegativePercentage)
}

func (suite *TestSuiteStandard) TestSchemeNameNotUnique() {
	_ = suite.createTestScheme(models.DistributionScheme{Name: "Default"})

	err := models.DB.Create(&models.DistributionScheme{Name: "Default"}).Error
	suite.Assert().ErrorIs(err, models.ErrSchemeNameNotUnique)
}

func (suite *TestSuiteStandard) TestSchemeBucketNameNotUnique() {
	err := models.DB.Create(&models.DistributionScheme{
		Name: "Duplicate buckets",
		Buckets: []models.SchemeBucket{
			{Name: "needs", Percentage: decimal.NewFromInt(50)},
			{Name: "needs", Percentage: decimal.NewFromInt(50)},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrSchemeBucketNameNotUnique)
}

func (suite *TestSuiteStandard) TestSchemeDistributionOrder() {
	scheme := suite.createTestScheme(models.DistributionScheme{
		Name: "Out of order",
		Buckets: []models.SchemeBucket{
			{Name: "savings", Percentage: decimal.NewFromInt(20), Position: 2},
			{Name: "needs", Percentage: decimal.NewFromInt(50), Position: 0},
			{Name: "wants", Percentage: decimal.NewFromInt(30), Position: 1},
		},
	})

	d := scheme.Distribution()
	suite.Require().Len(d.Buckets, 3)
	suite.Assert().Equal("needs", d.Buckets[0].Name)
	suite.Assert().Equal("wants", d.Buckets[1].Name)
	suite.Assert().Equal("savings", d.Buckets[2].Name)
}
