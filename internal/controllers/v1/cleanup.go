package v1

import (
	"net/http"

	"github.com/desweal/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterCleanupRoutes registers the routes for cleanup with
// the RouterGroup that is passed.
func (co Controller) RegisterCleanupRoutes(r *gin.RouterGroup) {
	r.DELETE("", co.Cleanup)
}

// @Summary		Delete everything
// @Description	Permanently deletes all resources
// @Tags			v1
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			confirm	query	string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func (co Controller) Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.Bind(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{Error: errCleanupConfirmation.Error()})
		return
	}

	// The order is important here since transactions reference goals
	// and buckets reference schemes
	resources := []any{
		&models.Transaction{},
		&models.CategoryRule{},
		&models.SchemeBucket{},
		&models.DistributionScheme{},
		&models.SavingsGoal{},
	}

	// Deletes all resources in a transaction, so that all deletes
	// are rolled back on any error
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range resources {
			err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
