package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/httputil"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	mm_uuid "github.com/zulkamaula/money-mapper-monitor-v2/internal/uuid"
)

var hundred = decimal.NewFromInt(100)

// RegisterHoldingRoutes registers the routes for holdings with
// the RouterGroup that is passed.
func RegisterHoldingRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsHoldings)
		r.GET("", GetHoldings)
		r.POST("", CreateHoldingTransaction)
	}

	// Holding with ID
	{
		r.OPTIONS("/:id", OptionsHoldingDetail)
		r.GET("/:id", GetHolding)
		r.PATCH("/:id", UpdateHolding)
		r.DELETE("/:id", DeleteHolding)
	}

	// Transaction log
	{
		r.OPTIONS("/:id/transactions", OptionsHoldingTransactions)
		r.GET("/:id/transactions", GetHoldingTransactions)
	}

	// Funding provenance
	{
		r.OPTIONS("/:id/budget-sources", OptionsHoldingBudgetSources)
		r.GET("/:id/budget-sources", GetHoldingBudgetSources)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Holdings
// @Success		204
// @Router			/v1/holdings [options]
func OptionsHoldings(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Holdings
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id} [options]
func OptionsHoldingDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.HoldingForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Holdings
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id}/transactions [options]
func OptionsHoldingTransactions(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.HoldingForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Holdings
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id}/budget-sources [options]
func OptionsHoldingBudgetSources(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.HoldingForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Record purchase
// @Description	Records a holding transaction, lazily creating the book's portfolio, the asset and the holding on first use. When an allocation is linked, the transaction amount is attributed to the allocation's pockets.
// @Tags			Holdings
// @Produce		json
// @Success		201		{object}	HoldingCreateResponse
// @Failure		400		{object}	HoldingCreateResponse
// @Failure		404		{object}	HoldingCreateResponse
// @Failure		500		{object}	HoldingCreateResponse
// @Param			holding	body		HoldingEditable	true	"Purchase"
// @Router			/v1/holdings [post]
func CreateHoldingTransaction(c *gin.Context) {
	var editable HoldingEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingCreateResponse{
			Error: &e,
		})
		return
	}

	transaction, err := models.CreateHoldingTransaction(models.DB, userID(c), editable.create())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingCreateResponse{
			Error: &e,
		})
		return
	}

	// Re-read the holding so that the response reflects the aggregates
	// after this purchase
	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingCreateResponse{
			Error: &e,
		})
		return
	}

	data := HoldingCreateData{
		Transaction: newTransaction(c, transaction),
		Holding:     newHolding(c, holding),
	}
	c.JSON(http.StatusCreated, HoldingCreateResponse{Data: &data})
}

// @Summary		Get holdings
// @Description	Returns the holdings of a book with their assets
// @Tags			Holdings
// @Produce		json
// @Success		200	{object}	HoldingListResponse
// @Failure		400	{object}	HoldingListResponse
// @Failure		404	{object}	HoldingListResponse
// @Failure		500	{object}	HoldingListResponse
// @Router			/v1/holdings [get]
// @Param			book	query	string	true	"ID of the book"
func GetHoldings(c *gin.Context) {
	var filter HoldingQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, HoldingListResponse{
			Error: &s,
		})
		return
	}

	if filter.BookID == mm_uuid.Nil {
		e := errBookIDParameter.Error()
		c.JSON(http.StatusBadRequest, HoldingListResponse{
			Error: &e,
		})
		return
	}

	_, err := models.BookForUser(models.DB, filter.BookID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingListResponse{
			Error: &e,
		})
		return
	}

	holdings, err := models.HoldingsForBook(models.DB, filter.BookID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Holding, 0)
	for _, holding := range holdings {
		data = append(data, newHolding(c, holding))
	}

	c.JSON(http.StatusOK, HoldingListResponse{Data: data})
}

// @Summary		Get holding
// @Description	Returns a specific holding
// @Tags			Holdings
// @Produce		json
// @Success		200	{object}	HoldingResponse
// @Failure		400	{object}	HoldingResponse
// @Failure		404	{object}	HoldingResponse
// @Failure		500	{object}	HoldingResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id} [get]
func GetHolding(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingResponse{
			Error: &e,
		})
		return
	}

	holding, err := models.HoldingForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingResponse{
			Error: &e,
		})
		return
	}

	data := newHolding(c, holding)
	c.JSON(http.StatusOK, HoldingResponse{Data: &data})
}

// @Summary		Update holding
// @Description	Applies a manual correction to a holding. This is an exceptional path, the normal flow is always through transactions.
// @Tags			Holdings
// @Accept			json
// @Produce		json
// @Success		200		{object}	HoldingResponse
// @Failure		400		{object}	HoldingResponse
// @Failure		404		{object}	HoldingResponse
// @Failure		500		{object}	HoldingResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			holding	body		HoldingPatch	true	"Holding"
// @Router			/v1/holdings/{id} [patch]
func UpdateHolding(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingResponse{
			Error: &e,
		})
		return
	}

	// Bind the update for the patch
	var patch HoldingPatch
	err = httputil.BindData(c, &patch)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingResponse{
			Error: &e,
		})
		return
	}

	holding, err := models.UpdateHolding(models.DB, userID(c), uri.ID.UUID, patch.update())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingResponse{
			Error: &e,
		})
		return
	}

	data := newHolding(c, holding)
	c.JSON(http.StatusOK, HoldingResponse{Data: &data})
}

// @Summary		Delete holding
// @Description	Deletes a holding with its transaction log and budget source rows
// @Tags			Holdings
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id} [delete]
func DeleteHolding(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DeleteHolding(models.DB, userID(c), uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Get holding transactions
// @Description	Returns the holding's transaction log, newest purchase first. Each linked transaction carries its per-pocket funding breakdown, derived from the allocation's item snapshots.
// @Tags			Holdings
// @Produce		json
// @Success		200	{object}	HoldingTransactionsResponse
// @Failure		400	{object}	HoldingTransactionsResponse
// @Failure		404	{object}	HoldingTransactionsResponse
// @Failure		500	{object}	HoldingTransactionsResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id}/transactions [get]
func GetHoldingTransactions(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingTransactionsResponse{
			Error: &e,
		})
		return
	}

	holding, err := models.HoldingForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingTransactionsResponse{
			Error: &e,
		})
		return
	}

	transactions, err := holding.Transactions(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), HoldingTransactionsResponse{
			Error: &e,
		})
		return
	}

	data := make([]TransactionWithSources, 0)
	for _, transaction := range transactions {
		entry := TransactionWithSources{
			Transaction: newTransaction(c, transaction),
			Sources:     make([]TransactionSource, 0),
		}

		// The breakdown uses the allocation's snapshots, so it stays
		// stable across pocket renames and deletions
		if transaction.AllocationID != nil {
			var items []models.AllocationItem
			err := models.DB.
				Where(&models.AllocationItem{AllocationID: *transaction.AllocationID}).
				Find(&items).Error
			if err != nil {
				e := err.Error()
				c.JSON(status(err), HoldingTransactionsResponse{
					Error: &e,
				})
				return
			}

			for _, item := range items {
				entry.Sources = append(entry.Sources, TransactionSource{
					PocketName: item.PocketName,
					Percentage: item.PocketPercentage,
					Amount:     transaction.Amount.Mul(item.PocketPercentage).Div(hundred),
				})
			}
		}

		data = append(data, entry)
	}

	c.JSON(http.StatusOK, HoldingTransactionsResponse{Data: data})
}

// @Summary		Get budget sources
// @Description	Reports which pockets funded the holding, grouped by the pocket names snapshotted at allocation time and ordered by contribution, largest first.
// @Tags			Holdings
// @Produce		json
// @Success		200	{object}	BudgetSourceListResponse
// @Failure		400	{object}	BudgetSourceListResponse
// @Failure		404	{object}	BudgetSourceListResponse
// @Failure		500	{object}	BudgetSourceListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/holdings/{id}/budget-sources [get]
func GetHoldingBudgetSources(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSourceListResponse{
			Error: &e,
		})
		return
	}

	holding, err := models.HoldingForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSourceListResponse{
			Error: &e,
		})
		return
	}

	sources, err := holding.BudgetSources(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetSourceListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, BudgetSourceListResponse{Data: sources})
}
