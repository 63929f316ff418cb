package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/httputil"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/split"
	mm_uuid "github.com/zulkamaula/money-mapper-monitor-v2/internal/uuid"
)

// RegisterAllocationRoutes registers the routes for allocations with
// the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAllocations)
		r.GET("", GetAllocations)
		r.POST("", CreateAllocation)
	}

	// Allocation with ID
	{
		r.OPTIONS("/:id", OptionsAllocationDetail)
		r.GET("/:id", GetAllocation)
		r.DELETE("/:id", DeleteAllocation)
	}

	// Funded holding transactions
	{
		r.OPTIONS("/:id/transactions", OptionsAllocationTransactions)
		r.GET("/:id/transactions", GetAllocationTransactions)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocations(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [options]
func OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.AllocationForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Allocations are immutable, there is no PATCH
	httputil.OptionsGetDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/transactions [options]
func OptionsAllocationTransactions(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.AllocationForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create allocation
// @Description	Records a deposit and splits it across the book's pockets. Every pocket's name and percentage are snapshotted, later pocket edits do not change the created items.
// @Tags			Allocations
// @Produce		json
// @Success		201			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			allocation	body		AllocationEditable	true	"Allocation"
// @Router			/v1/allocations [post]
func CreateAllocation(c *gin.Context) {
	var editable AllocationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	book, err := models.BookForUser(models.DB, editable.BookID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	pockets, err := book.Pockets(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	// Restrict to the requested pockets, in the order they were sent
	if len(editable.PocketIDs) > 0 {
		byID := make(map[string]models.Pocket, len(pockets))
		for _, pocket := range pockets {
			byID[pocket.ID.String()] = pocket
		}

		selected := make([]models.Pocket, 0, len(editable.PocketIDs))
		for _, id := range editable.PocketIDs {
			pocket, ok := byID[id.String()]
			if !ok {
				e := errPocketNotInBook.Error()
				c.JSON(http.StatusNotFound, AllocationResponse{
					Error: &e,
				})
				return
			}
			selected = append(selected, pocket)
		}
		pockets = selected
	}

	weights := make([]split.Weight, 0, len(pockets))
	for _, pocket := range pockets {
		weights = append(weights, split.Weight{
			ID:         pocket.ID,
			Name:       pocket.Name,
			Percentage: pocket.Percentage,
		})
	}

	allocation, err := models.CreateAllocation(models.DB, userID(c), models.AllocationCreate{
		BookID:       editable.BookID,
		SourceAmount: editable.SourceAmount,
		Date:         editable.Date,
		Note:         editable.Note,
		Weights:      weights,
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	data := newAllocation(c, allocation, models.LinkedTransactionStats{})
	c.JSON(http.StatusCreated, AllocationResponse{Data: &data})
}

// @Summary		Get allocations
// @Description	Returns the allocations of a book with their items, most recent first
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		404	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			book	query	string	true	"ID of the book"
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	if filter.BookID == mm_uuid.Nil {
		e := errBookIDParameter.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &e,
		})
		return
	}

	_, err := models.BookForUser(models.DB, filter.BookID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &e,
		})
		return
	}

	allocations, err := models.AllocationsForBook(models.DB, filter.BookID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Allocation, 0)
	for _, allocation := range allocations {
		stats, err := allocation.LinkedTransactionStats(models.DB)
		if err != nil {
			e := err.Error()
			c.JSON(status(err), AllocationListResponse{
				Error: &e,
			})
			return
		}

		data = append(data, newAllocation(c, allocation, stats))
	}

	c.JSON(http.StatusOK, AllocationListResponse{Data: data})
}

// @Summary		Get allocation
// @Description	Returns a specific allocation with its items
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		404	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [get]
func GetAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	allocation, err := models.AllocationForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Where(&models.AllocationItem{AllocationID: allocation.ID}).Find(&allocation.Items).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	stats, err := allocation.LinkedTransactionStats(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &e,
		})
		return
	}

	data := newAllocation(c, allocation, stats)
	c.JSON(http.StatusOK, AllocationResponse{Data: &data})
}

// @Summary		Get funded transactions
// @Description	Returns the holding transactions that were funded from this allocation
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		404	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id}/transactions [get]
func GetAllocationTransactions(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	allocation, err := models.AllocationForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	transactions, err := allocation.LinkedTransactions(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Transaction, 0)
	for _, transaction := range transactions {
		data = append(data, newTransaction(c, transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: data})
}

// @Summary		Delete allocation
// @Description	Deletes an allocation with its items. Holding transactions funded from it are unlinked, not deleted.
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [delete]
func DeleteAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DeleteAllocation(models.DB, userID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
