package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
)

type BookEditable struct {
	Name         string `json:"name" example:"Household" default:""`                  // Name of the book
	Note         string `json:"note" example:"My shared household budget" default:""` // A longer description
	HasPortfolio bool   `json:"hasPortfolio" example:"true" default:"false"`          // Whether investment tracking is enabled
}

// model returns the database resource for the API representation of the editable fields
func (editable BookEditable) model() models.Book {
	return models.Book{
		Name:         editable.Name,
		Note:         editable.Note,
		HasPortfolio: editable.HasPortfolio,
	}
}

type BookLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/books/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                   // The book itself
	Pockets     string `json:"pockets" example:"https://example.com/api/v1/pockets?book=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`         // Pockets of this book
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?book=550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // Allocations of this book
	Holdings    string `json:"holdings" example:"https://example.com/api/v1/holdings?book=550dc009-cea6-4c12-b2a5-03446eb7b7cf"`       // Holdings of this book
}

// Book is the API representation of a book.
type Book struct {
	models.DefaultModel
	BookEditable
	OrderIndex uint      `json:"orderIndex" example:"0"` // Position in the user's book list, 0 is the top
	Links      BookLinks `json:"links"`
}

// newBook returns the API representation of the resource
func newBook(c *gin.Context, model models.Book) Book {
	url := c.GetString(string(models.DBContextURL))

	return Book{
		DefaultModel: model.DefaultModel,
		BookEditable: BookEditable{
			Name:         model.Name,
			Note:         model.Note,
			HasPortfolio: model.HasPortfolio,
		},
		OrderIndex: model.OrderIndex,
		Links: BookLinks{
			Self:        fmt.Sprintf("%s/v1/books/%s", url, model.ID),
			Pockets:     fmt.Sprintf("%s/v1/pockets?book=%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?book=%s", url, model.ID),
			Holdings:    fmt.Sprintf("%s/v1/holdings?book=%s", url, model.ID),
		},
	}
}

type BookResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Book   `json:"data"`                                                          // The Book data
}

type BookListResponse struct {
	Data       []Book      `json:"data"`                                                          // List of books
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BookQueryFilter struct {
	Name         string `form:"name" filterField:"false"`   // Filter by name
	Note         string `form:"note" filterField:"false"`   // Filter by note
	HasPortfolio bool   `form:"hasPortfolio"`               // Whether investment tracking is enabled
	Offset       uint   `form:"offset" filterField:"false"` // The offset of the first Book returned. Defaults to 0.
	Limit        int    `form:"limit" filterField:"false"`  // Maximum number of Books to return. Defaults to 50.
}

func (f BookQueryFilter) model() models.Book {
	return models.Book{
		HasPortfolio: f.HasPortfolio,
	}
}

// BookReorder is the body for the book reorder endpoint.
type BookReorder struct {
	IDs []string `json:"ids" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // All book IDs of the user in their new order
}
