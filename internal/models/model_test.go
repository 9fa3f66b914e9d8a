package models_test

import (
	"time"

	"github.com/desweal/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestIDGenerated() {
	transaction := suite.createTestTransaction(models.Transaction{})
	suite.Assert().NotEqual(uuid.Nil, transaction.ID)
}

func (suite *TestSuiteStandard) TestIDPreserved() {
	id := uuid.New()

	transaction := suite.createTestTransaction(models.Transaction{
		DefaultModel: models.DefaultModel{ID: id},
	})
	suite.Assert().Equal(id, transaction.ID)
}

func (suite *TestSuiteStandard) TestTimestampsUTC() {
	transaction := suite.createTestTransaction(models.Transaction{})

	var reloaded models.Transaction
	suite.Require().Nil(models.DB.First(&reloaded, "id = ?", transaction.ID).Error)

	suite.Assert().Equal(time.UTC, reloaded.CreatedAt.Location())
	suite.Assert().Equal(time.UTC, reloaded.UpdatedAt.Location())
}
