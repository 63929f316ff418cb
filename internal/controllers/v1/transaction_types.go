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

// TransactionEditable contains the fields of a holding transaction
// that can be changed after creation. Only fields present in the PATCH
// body are applied.
type TransactionEditable struct {
	Amount       *decimal.Decimal `json:"amount" example:"200000" minimum:"0.00000001"`      // The amount spent
	Quantity     *decimal.Decimal `json:"quantity" example:"2.5" minimum:"0.00000001"`       // The quantity bought
	AveragePrice *decimal.Decimal `json:"averagePrice" example:"80000" minimum:"0.00000001"` // Price per unit
	PurchaseDate *time.Time       `json:"purchaseDate" example:"2024-03-02T00:00:00Z"`       // Date of the purchase
	Note         *string          `json:"note" example:"Bought at a dip"`                    // A longer description
}

// update returns the model mutation for the editable fields
func (editable TransactionEditable) update() models.HoldingTransactionUpdate {
	return models.HoldingTransactionUpdate{
		Amount:       editable.Amount,
		Quantity:     editable.Quantity,
		AveragePrice: editable.AveragePrice,
		PurchaseDate: editable.PurchaseDate,
		Note:         editable.Note,
	}
}

type TransactionLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/transactions/a6e30478-b0d6-4f17-a19b-83ee5e7b29c5"`      // The transaction itself
	Holding    string `json:"holding" example:"https://example.com/api/v1/holdings/29caff60-2e63-4b30-926a-d745bf1603d9"`       // The holding the transaction belongs to
	Allocation string `json:"allocation" example:"https://example.com/api/v1/allocations/d1b9b40c-2287-4a27-a48a-9cf8b19a5bf0"` // The allocation that funded the transaction. Empty when unlinked
}

// Transaction is the API representation of a holding transaction.
type Transaction struct {
	models.DefaultModel
	HoldingID    uuid.UUID              `json:"holdingId" example:"29caff60-2e63-4b30-926a-d745bf1603d9"` // ID of the holding
	Type         models.TransactionType `json:"type" example:"buy"`                                       // Type of the transaction
	Amount       decimal.Decimal        `json:"amount" example:"200000"`                                  // The amount spent
	Quantity     decimal.Decimal        `json:"quantity" example:"2.5"`                                   // The quantity bought
	AveragePrice *decimal.Decimal       `json:"averagePrice" example:"80000"`                             // Price per unit
	PurchaseDate *time.Time             `json:"purchaseDate" example:"2024-03-02T00:00:00Z"`              // Date of the purchase
	Note         string                 `json:"note" example:"Bought at a dip"`                           // A longer description
	AllocationID *uuid.UUID             `json:"allocationId"`                                             // ID of the allocation that funded the transaction. Null when unlinked
	Links        TransactionLinks       `json:"links"`
}

// newTransaction returns the API representation of the resource
func newTransaction(c *gin.Context, model models.HoldingTransaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	var allocationLink string
	if model.AllocationID != nil {
		allocationLink = fmt.Sprintf("%s/v1/allocations/%s", url, model.AllocationID)
	}

	return Transaction{
		DefaultModel: model.DefaultModel,
		HoldingID:    model.HoldingID,
		Type:         model.Type,
		Amount:       model.Amount,
		Quantity:     model.Quantity,
		AveragePrice: model.AveragePrice,
		PurchaseDate: model.PurchaseDate,
		Note:         model.Note,
		AllocationID: model.AllocationID,
		Links: TransactionLinks{
			Self:       fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
			Holding:    fmt.Sprintf("%s/v1/holdings/%s", url, model.HoldingID),
			Allocation: allocationLink,
		},
	}
}

type TransactionResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Transaction `json:"data"`                                                          // The Transaction data
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination,omitempty"`                                          // Pagination information, omitted for sub-resource listings
}

type TransactionQueryFilter struct {
	HoldingID    mm_uuid.UUID           `form:"holding"`                    // ID of the holding
	AllocationID mm_uuid.UUID           `form:"allocation"`                 // ID of the funding allocation
	Type         models.TransactionType `form:"type" filterField:"false"`   // Type of the transaction
	Offset       uint                   `form:"offset" filterField:"false"` // The offset of the first Transaction returned. Defaults to 0.
	Limit        int                    `form:"limit" filterField:"false"`  // Maximum number of Transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.HoldingTransaction {
	// If the allocation ID is unset, use an actual nil, not uuid.Nil
	var aID *uuid.UUID
	if f.AllocationID != mm_uuid.Nil {
		aID = &f.AllocationID.UUID
	}

	return models.HoldingTransaction{
		HoldingID:    f.HoldingID.UUID,
		AllocationID: aID,
	}
}
