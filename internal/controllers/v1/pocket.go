package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/httputil"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterPocketRoutes registers the routes for pockets with
// the RouterGroup that is passed.
func RegisterPocketRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPockets)
		r.GET("", GetPockets)
		r.POST("", CreatePocket)
	}

	// Pocket with ID
	{
		r.OPTIONS("/:id", OptionsPocketDetail)
		r.GET("/:id", GetPocket)
		r.PATCH("/:id", UpdatePocket)
		r.DELETE("/:id", DeletePocket)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Pockets
// @Success		204
// @Router			/v1/pockets [options]
func OptionsPockets(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Pockets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/pockets/{id} [options]
func OptionsPocketDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.PocketForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create pocket
// @Description	Creates a new pocket in a book
// @Tags			Pockets
// @Produce		json
// @Success		201		{object}	PocketResponse
// @Failure		400		{object}	PocketResponse
// @Failure		404		{object}	PocketResponse
// @Failure		500		{object}	PocketResponse
// @Param			pocket	body		PocketEditable	true	"Pocket"
// @Router			/v1/pockets [post]
func CreatePocket(c *gin.Context) {
	var editable PocketEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	// The book must belong to the user
	_, err = models.BookForUser(models.DB, editable.BookID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	pocket := editable.model()
	err = models.DB.Create(&pocket).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	data := newPocket(c, pocket)
	c.JSON(http.StatusCreated, PocketResponse{Data: &data})
}

// @Summary		Get pockets
// @Description	Returns a list of pockets
// @Tags			Pockets
// @Produce		json
// @Success		200	{object}	PocketListResponse
// @Failure		400	{object}	PocketListResponse
// @Failure		500	{object}	PocketListResponse
// @Router			/v1/pockets [get]
// @Param			book	query	string	false	"Filter by book ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			offset	query	uint	false	"The offset of the first Pocket returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Pockets to return. Defaults to 50."
func GetPockets(c *gin.Context) {
	var filter PocketQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PocketListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()

	q := models.DB.
		Joins("JOIN books ON books.id = pockets.book_id").
		Where("books.user_id = ?", userID(c)).
		Order("pockets.order_index ASC, pockets.name ASC").
		Where(&model, queryFields...)

	if filter.Name != "" {
		q = q.Where("pockets.name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("pockets.name = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 pockets and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var pockets []models.Pocket
	err := q.Find(&pockets).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Pocket, 0)
	for _, pocket := range pockets {
		data = append(data, newPocket(c, pocket))
	}

	c.JSON(http.StatusOK, PocketListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get pocket
// @Description	Returns a specific pocket
// @Tags			Pockets
// @Produce		json
// @Success		200	{object}	PocketResponse
// @Failure		400	{object}	PocketResponse
// @Failure		404	{object}	PocketResponse
// @Failure		500	{object}	PocketResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/pockets/{id} [get]
func GetPocket(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	pocket, err := models.PocketForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	data := newPocket(c, pocket)
	c.JSON(http.StatusOK, PocketResponse{Data: &data})
}

// @Summary		Update pocket
// @Description	Updates an existing pocket. Only values to be updated need to be specified. Historical allocations are not touched, they keep the name and percentage snapshots taken at allocation time.
// @Tags			Pockets
// @Accept			json
// @Produce		json
// @Success		200		{object}	PocketResponse
// @Failure		400		{object}	PocketResponse
// @Failure		404		{object}	PocketResponse
// @Failure		500		{object}	PocketResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			pocket	body		PocketEditable	true	"Pocket"
// @Router			/v1/pockets/{id} [patch]
func UpdatePocket(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	pocket, err := models.PocketForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, PocketEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	// Bind the update for the patch
	var update PocketEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	// A pocket cannot be moved to another book
	if slices.Contains(updateFields, any("BookID")) && update.BookID != pocket.BookID {
		e := models.ErrPocketBookImmutable.Error()
		c.JSON(http.StatusBadRequest, PocketResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&pocket).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PocketResponse{
			Error: &e,
		})
		return
	}

	data := newPocket(c, pocket)
	c.JSON(http.StatusOK, PocketResponse{Data: &data})
}

// @Summary		Delete pocket
// @Description	Deletes a pocket. Historical allocations keep their snapshots.
// @Tags			Pockets
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/pockets/{id} [delete]
func DeletePocket(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	pocket, err := models.PocketForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&pocket).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
