package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	mm_uuid "github.com/zulkamaula/money-mapper-monitor-v2/internal/uuid"
)

type PocketEditable struct {
	BookID     uuid.UUID       `json:"bookId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                     // ID of the book the pocket belongs to
	Name       string          `json:"name" example:"Needs" default:""`                                           // Name of the pocket
	Percentage decimal.Decimal `json:"percentage" example:"50" minimum:"0" maximum:"100" multipleOf:"0.00000001"` // Share of every deposit in percent
	OrderIndex uint            `json:"orderIndex" example:"0" default:"0"`                                        // Position in the book's pocket list, 0 is the top
}

// model returns the database resource for the API representation of the editable fields
func (editable PocketEditable) model() models.Pocket {
	return models.Pocket{
		BookID:     editable.BookID,
		Name:       editable.Name,
		Percentage: editable.Percentage,
		OrderIndex: editable.OrderIndex,
	}
}

type PocketLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/pockets/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // The pocket itself
	Book string `json:"book" example:"https://example.com/api/v1/books/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`   // The book the pocket belongs to
}

// Pocket is the API representation of a pocket.
type Pocket struct {
	models.DefaultModel
	PocketEditable
	Links PocketLinks `json:"links"`
}

// newPocket returns the API representation of the resource
func newPocket(c *gin.Context, model models.Pocket) Pocket {
	url := c.GetString(string(models.DBContextURL))

	return Pocket{
		DefaultModel: model.DefaultModel,
		PocketEditable: PocketEditable{
			BookID:     model.BookID,
			Name:       model.Name,
			Percentage: model.Percentage,
			OrderIndex: model.OrderIndex,
		},
		Links: PocketLinks{
			Self: fmt.Sprintf("%s/v1/pockets/%s", url, model.ID),
			Book: fmt.Sprintf("%s/v1/books/%s", url, model.BookID),
		},
	}
}

type PocketResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Pocket `json:"data"`                                                          // The Pocket data
}

type PocketListResponse struct {
	Data       []Pocket    `json:"data"`                                                          // List of pockets
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PocketQueryFilter struct {
	BookID mm_uuid.UUID `form:"book"`                       // ID of the book
	Name   string       `form:"name" filterField:"false"`   // Filter by name
	Offset uint         `form:"offset" filterField:"false"` // The offset of the first Pocket returned. Defaults to 0.
	Limit  int          `form:"limit" filterField:"false"`  // Maximum number of Pockets to return. Defaults to 50.
}

func (f PocketQueryFilter) model() models.Pocket {
	return models.Pocket{
		BookID: f.BookID.UUID,
	}
}
