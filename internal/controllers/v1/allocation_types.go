package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	mm_uuid "github.com/zulkamaula/money-mapper-monitor-v2/internal/uuid"
)

type AllocationEditable struct {
	BookID       uuid.UUID       `json:"bookId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the book the deposit goes into
	SourceAmount decimal.Decimal `json:"sourceAmount" example:"1000000" minimum:"1"`            // The deposited amount, a whole number
	Date         time.Time       `json:"date" example:"2024-03-01T00:00:00Z"`                   // Date of the deposit. Defaults to the current time
	Note         string          `json:"note" example:"March salary" default:""`                // A longer description

	// IDs of the pockets to split across. When empty, all pockets of
	// the book are used. Name and percentage of each pocket are
	// snapshotted at creation time.
	PocketIDs []uuid.UUID `json:"pocketIds"`
}

type AllocationItem struct {
	PocketID         uuid.UUID       `json:"pocketId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // Weak reference, the pocket may have been deleted since
	PocketName       string          `json:"pocketName" example:"Needs"`                              // Name of the pocket when the allocation was created
	PocketPercentage decimal.Decimal `json:"pocketPercentage" example:"50"`                           // Percentage of the pocket when the allocation was created
	Amount           decimal.Decimal `json:"amount" example:"500000"`                                 // This pocket's share of the deposit
}

type AllocationLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/allocations/d1b9b40c-2287-4a27-a48a-9cf8b19a5bf0"`                      // The allocation itself
	Book         string `json:"book" example:"https://example.com/api/v1/books/550dc009-cea6-4c12-b2a5-03446eb7b7cf"`                            // The book the allocation belongs to
	Transactions string `json:"transactions" example:"https://example.com/api/v1/allocations/d1b9b40c-2287-4a27-a48a-9cf8b19a5bf0/transactions"` // Holding transactions funded from this allocation
}

// Allocation is the API representation of an allocation.
type Allocation struct {
	models.DefaultModel
	BookID       uuid.UUID                     `json:"bookId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"` // ID of the book
	SourceAmount decimal.Decimal               `json:"sourceAmount" example:"1000000"`                        // The deposited amount
	Date         time.Time                     `json:"date" example:"2024-03-01T00:00:00Z"`                   // Date of the deposit
	Note         string                        `json:"note" example:"March salary"`                           // A longer description
	Items        []AllocationItem              `json:"items"`                                                 // The per-pocket shares
	Stats        models.LinkedTransactionStats `json:"stats"`                                                 // Summary of holding transactions funded from this allocation
	Links        AllocationLinks               `json:"links"`
}

// newAllocation returns the API representation of the resource
func newAllocation(c *gin.Context, model models.Allocation, stats models.LinkedTransactionStats) Allocation {
	url := c.GetString(string(models.DBContextURL))

	items := make([]AllocationItem, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, AllocationItem{
			PocketID:         item.PocketID,
			PocketName:       item.PocketName,
			PocketPercentage: item.PocketPercentage,
			Amount:           item.Amount,
		})
	}

	return Allocation{
		DefaultModel: model.DefaultModel,
		BookID:       model.BookID,
		SourceAmount: model.SourceAmount,
		Date:         model.Date,
		Note:         model.Note,
		Items:        items,
		Stats:        stats,
		Links: AllocationLinks{
			Self:         fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Book:         fmt.Sprintf("%s/v1/books/%s", url, model.BookID),
			Transactions: fmt.Sprintf("%s/v1/allocations/%s/transactions", url, model.ID),
		},
	}
}

type AllocationResponse struct {
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Allocation `json:"data"`                                                          // The Allocation data
}

type AllocationListResponse struct {
	Data  []Allocation `json:"data"`                                                          // List of allocations
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationQueryFilter struct {
	BookID mm_uuid.UUID `form:"book"` // ID of the book
}
