package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
)

type CleanupQuery struct {
	Confirm string `form:"confirm"`
}

// @Summary		Delete everything
// @Description	Permanently deletes all resources of the authenticated user
// @Tags			v1
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			confirm	query	string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params CleanupQuery
	err := c.Bind(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httpError{
			Error: errCleanupConfirmation.Error(),
		})
		return
	}

	user := userID(c)

	books := models.DB.Model(&models.Book{}).Select("id").Where("user_id = ?", user)
	portfolios := models.DB.Model(&models.Portfolio{}).Select("id").Where("book_id IN (?)", books)
	assets := models.DB.Model(&models.Asset{}).Select("id").Where("portfolio_id IN (?)", portfolios)
	holdings := models.DB.Model(&models.Holding{}).Select("id").Where("asset_id IN (?)", assets)
	allocations := models.DB.Model(&models.Allocation{}).Select("id").Where("book_id IN (?)", books)

	// The order is important here since there are foreign keys to consider!
	deletions := []struct {
		model any
		query string
		arg   any
	}{
		{&models.HoldingBudgetSource{}, "holding_id IN (?)", holdings},
		{&models.HoldingTransaction{}, "holding_id IN (?)", holdings},
		{&models.Holding{}, "asset_id IN (?)", assets},
		{&models.Asset{}, "portfolio_id IN (?)", portfolios},
		{&models.Portfolio{}, "book_id IN (?)", books},
		{&models.AllocationItem{}, "allocation_id IN (?)", allocations},
		{&models.Allocation{}, "book_id IN (?)", books},
		{&models.Pocket{}, "book_id IN (?)", books},
		{&models.Book{}, "user_id = ?", user},
	}

	tx := models.DB.Begin()
	for _, deletion := range deletions {
		err := tx.Unscoped().Where(deletion.query, deletion.arg).Delete(deletion.model).Error
		if err != nil {
			tx.Rollback()
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}
	}

	tx.Commit()
	c.Status(http.StatusNoContent)
}
