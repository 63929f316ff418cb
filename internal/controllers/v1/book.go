package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/httputil"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterBookRoutes registers the routes for books with
// the RouterGroup that is passed.
func RegisterBookRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBooks)
		r.GET("", GetBooks)
		r.POST("", CreateBook)
	}

	// Reorder
	{
		r.OPTIONS("/reorder", OptionsBookReorder)
		r.POST("/reorder", ReorderBooks)
	}

	// Book with ID
	{
		r.OPTIONS("/:id", OptionsBookDetail)
		r.GET("/:id", GetBook)
		r.PATCH("/:id", UpdateBook)
		r.DELETE("/:id", DeleteBook)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Books
// @Success		204
// @Router			/v1/books [options]
func OptionsBooks(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Books
// @Success		204
// @Router			/v1/books/reorder [options]
func OptionsBookReorder(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Books
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/books/{id} [options]
func OptionsBookDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.BookForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create book
// @Description	Creates a new book at the top of the user's book list
// @Tags			Books
// @Produce		json
// @Success		201		{object}	BookResponse
// @Failure		400		{object}	BookResponse
// @Failure		500		{object}	BookResponse
// @Param			book	body		BookEditable	true	"Book"
// @Router			/v1/books [post]
func CreateBook(c *gin.Context) {
	var editable BookEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	book := editable.model()
	book.UserID = userID(c)

	err = models.CreateBook(models.DB, &book)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	data := newBook(c, book)
	c.JSON(http.StatusCreated, BookResponse{Data: &data})
}

// @Summary		Get books
// @Description	Returns the user's books in display order
// @Tags			Books
// @Produce		json
// @Success		200	{object}	BookListResponse
// @Failure		400	{object}	BookListResponse
// @Failure		500	{object}	BookListResponse
// @Router			/v1/books [get]
// @Param			name			query	string	false	"Filter by name"
// @Param			note			query	string	false	"Filter by note"
// @Param			hasPortfolio	query	bool	false	"Whether investment tracking is enabled"
// @Param			offset			query	uint	false	"The offset of the first Book returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Books to return. Defaults to 50."
func GetBooks(c *gin.Context) {
	var filter BookQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, BookListResponse{
			Error: &s,
		})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()
	model.UserID = userID(c)

	q := models.DB.
		Order("books.order_index ASC, books.name ASC").
		Where(&model, queryFields...).
		Where(&models.Book{UserID: model.UserID})

	if filter.Name != "" {
		q = q.Where("books.name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("books.name = ''")
	}

	if filter.Note != "" {
		q = q.Where("books.note LIKE ?", fmt.Sprintf("%%%s%%", filter.Note))
	} else if slices.Contains(setFields, "Note") {
		q = q.Where("books.note = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 books and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var books []models.Book
	err := q.Find(&books).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Book, 0)
	for _, book := range books {
		data = append(data, newBook(c, book))
	}

	c.JSON(http.StatusOK, BookListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get book
// @Description	Returns a specific book
// @Tags			Books
// @Produce		json
// @Success		200	{object}	BookResponse
// @Failure		400	{object}	BookResponse
// @Failure		404	{object}	BookResponse
// @Failure		500	{object}	BookResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/books/{id} [get]
func GetBook(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	book, err := models.BookForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	data := newBook(c, book)
	c.JSON(http.StatusOK, BookResponse{Data: &data})
}

// @Summary		Update book
// @Description	Updates an existing book. Only values to be updated need to be specified.
// @Tags			Books
// @Accept			json
// @Produce		json
// @Success		200		{object}	BookResponse
// @Failure		400		{object}	BookResponse
// @Failure		404		{object}	BookResponse
// @Failure		500		{object}	BookResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			book	body		BookEditable	true	"Book"
// @Router			/v1/books/{id} [patch]
func UpdateBook(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	book, err := models.BookForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, BookEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	// Bind the update for the patch
	var update BookEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&book).Select("", updateFields...).Updates(update.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookResponse{
			Error: &e,
		})
		return
	}

	data := newBook(c, book)
	c.JSON(http.StatusOK, BookResponse{Data: &data})
}

// @Summary		Reorder books
// @Description	Persists a new display order for the user's books. The body must contain every book ID of the user exactly once.
// @Tags			Books
// @Accept			json
// @Produce		json
// @Success		200		{object}	BookListResponse
// @Failure		400		{object}	BookListResponse
// @Failure		404		{object}	BookListResponse
// @Failure		500		{object}	BookListResponse
// @Param			order	body		BookReorder	true	"Book order"
// @Router			/v1/books/reorder [post]
func ReorderBooks(c *gin.Context) {
	var reorder BookReorder

	err := httputil.BindData(c, &reorder)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookListResponse{
			Error: &e,
		})
		return
	}

	ids := make([]uuid.UUID, 0, len(reorder.IDs))
	for _, s := range reorder.IDs {
		id, err := httputil.UUIDFromString(s)
		if err != nil {
			e := err.Error()
			c.JSON(http.StatusBadRequest, BookListResponse{
				Error: &e,
			})
			return
		}
		ids = append(ids, id)
	}

	// The order must cover all books of the user
	var count int64
	err = models.DB.Model(&models.Book{}).Where(&models.Book{UserID: userID(c)}).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookListResponse{
			Error: &e,
		})
		return
	}

	if count != int64(len(ids)) {
		e := errReorderIDsIncomplete.Error()
		c.JSON(http.StatusBadRequest, BookListResponse{
			Error: &e,
		})
		return
	}

	err = models.ReorderBooks(models.DB, userID(c), ids)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookListResponse{
			Error: &e,
		})
		return
	}

	var books []models.Book
	err = models.DB.
		Where(&models.Book{UserID: userID(c)}).
		Order("books.order_index ASC").
		Find(&books).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BookListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Book, 0)
	for _, book := range books {
		data = append(data, newBook(c, book))
	}

	c.JSON(http.StatusOK, BookListResponse{Data: data})
}

// @Summary		Delete book
// @Description	Deletes a book with all its pockets, allocations and holdings
// @Tags			Books
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/books/{id} [delete]
func DeleteBook(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	book, err := models.BookForUser(models.DB, uri.ID.UUID, userID(c))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&book).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
