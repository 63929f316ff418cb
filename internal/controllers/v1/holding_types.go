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

// HoldingEditable records a purchase. The holding is resolved lazily
// from (asset, platform, instrument), so the first purchase of an
// instrument creates the holding as a side effect.
type HoldingEditable struct {
	BookID         uuid.UUID              `json:"bookId" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`       // ID of the book
	AssetType      models.AssetType       `json:"assetType" example:"gold"`                                    // Classification of the asset
	AssetName      string                 `json:"assetName" example:"Gold"`                                    // Name of the asset
	Platform       string                 `json:"platform" example:"Pluang"`                                   // Platform the instrument is held on
	InstrumentName string                 `json:"instrumentName" example:"Physical Gold"`                      // Name of the instrument
	Type           models.TransactionType `json:"type" example:"buy" default:"buy"`                            // Type of the transaction
	Amount         decimal.Decimal        `json:"amount" example:"200000" minimum:"0.00000001"`                // The amount spent
	Quantity       decimal.Decimal        `json:"quantity" example:"2.5" minimum:"0.00000001"`                 // The quantity bought
	AveragePrice   *decimal.Decimal       `json:"averagePrice" example:"80000" minimum:"0.00000001"`           // Price per unit
	PurchaseDate   *time.Time             `json:"purchaseDate" example:"2024-03-02T00:00:00Z"`                 // Date of the purchase
	Note           string                 `json:"note" example:"Bought at a dip" default:""`                   // A longer description
	AllocationID   *uuid.UUID             `json:"allocationId" example:"d1b9b40c-2287-4a27-a48a-9cf8b19a5bf0"` // ID of the allocation that funds the purchase
}

// create returns the model operation input for the editable fields
func (editable HoldingEditable) create() models.HoldingTransactionCreate {
	return models.HoldingTransactionCreate{
		BookID:         editable.BookID,
		AssetType:      editable.AssetType,
		AssetName:      editable.AssetName,
		Platform:       editable.Platform,
		InstrumentName: editable.InstrumentName,
		Type:           editable.Type,
		Amount:         editable.Amount,
		Quantity:       editable.Quantity,
		AveragePrice:   editable.AveragePrice,
		PurchaseDate:   editable.PurchaseDate,
		Note:           editable.Note,
		AllocationID:   editable.AllocationID,
	}
}

// HoldingPatch contains the fields of a holding that may be corrected
// manually. The normal flow is always through transactions.
type HoldingPatch struct {
	Platform        *string          `json:"platform" example:"Pluang"`              // Platform the instrument is held on
	InstrumentName  *string          `json:"instrumentName" example:"Physical Gold"` // Name of the instrument
	TotalInvestment *decimal.Decimal `json:"totalInvestment" example:"400000"`       // Manual correction of the invested total
	TotalQuantity   *decimal.Decimal `json:"totalQuantity" example:"5"`              // Manual correction of the quantity total
	Note            *string          `json:"note" example:"IRA holding"`             // A longer description
}

// update returns the model mutation for the patch fields
func (patch HoldingPatch) update() models.HoldingUpdate {
	return models.HoldingUpdate{
		Platform:        patch.Platform,
		InstrumentName:  patch.InstrumentName,
		TotalInvestment: patch.TotalInvestment,
		TotalQuantity:   patch.TotalQuantity,
		Note:            patch.Note,
	}
}

type HoldingLinks struct {
	Self          string `json:"self" example:"https://example.com/api/v1/holdings/29caff60-2e63-4b30-926a-d745bf1603d9"`                         // The holding itself
	Transactions  string `json:"transactions" example:"https://example.com/api/v1/holdings/29caff60-2e63-4b30-926a-d745bf1603d9/transactions"`    // The holding's transaction log
	BudgetSources string `json:"budgetSources" example:"https://example.com/api/v1/holdings/29caff60-2e63-4b30-926a-d745bf1603d9/budget-sources"` // Which pockets funded the holding
}

// Holding is the API representation of a holding.
type Holding struct {
	models.DefaultModel
	AssetType        models.AssetType `json:"assetType" example:"gold"`               // Classification of the asset
	AssetName        string           `json:"assetName" example:"Gold"`               // Name of the asset
	Platform         string           `json:"platform" example:"Pluang"`              // Platform the instrument is held on
	InstrumentName   string           `json:"instrumentName" example:"Physical Gold"` // Name of the instrument
	TotalInvestment  decimal.Decimal  `json:"totalInvestment" example:"400000"`       // Total invested amount, rolled up from the transaction log
	TotalQuantity    decimal.Decimal  `json:"totalQuantity" example:"5"`              // Total quantity, rolled up from the transaction log
	TransactionCount int64            `json:"transactionCount" example:"2"`           // Number of transactions in the log
	Note             string           `json:"note" example:"IRA holding"`             // A longer description
	Links            HoldingLinks     `json:"links"`
}

// newHolding returns the API representation of the resource. The
// holding's asset must be preloaded.
func newHolding(c *gin.Context, model models.Holding) Holding {
	url := c.GetString(string(models.DBContextURL))

	return Holding{
		DefaultModel:     model.DefaultModel,
		AssetType:        model.Asset.Type,
		AssetName:        model.Asset.Name,
		Platform:         model.Platform,
		InstrumentName:   model.InstrumentName,
		TotalInvestment:  model.TotalInvestment,
		TotalQuantity:    model.TotalQuantity,
		TransactionCount: model.TransactionCount,
		Note:             model.Note,
		Links: HoldingLinks{
			Self:          fmt.Sprintf("%s/v1/holdings/%s", url, model.ID),
			Transactions:  fmt.Sprintf("%s/v1/holdings/%s/transactions", url, model.ID),
			BudgetSources: fmt.Sprintf("%s/v1/holdings/%s/budget-sources", url, model.ID),
		},
	}
}

type HoldingResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Holding `json:"data"`                                                          // The Holding data
}

type HoldingListResponse struct {
	Data  []Holding `json:"data"`                                                          // List of holdings
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// HoldingCreateData is returned when a purchase is recorded: the
// created transaction together with the holding it rolled up into.
type HoldingCreateData struct {
	Transaction Transaction `json:"transaction"` // The created transaction
	Holding     Holding     `json:"holding"`     // The holding after the purchase was applied
}

type HoldingCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *HoldingCreateData `json:"data"`                                                          // The created resources
}

type HoldingQueryFilter struct {
	BookID mm_uuid.UUID `form:"book"` // ID of the book
}

// TransactionSource is one pocket's contribution to a single
// transaction, derived from the funding allocation's item snapshots.
type TransactionSource struct {
	PocketName string          `json:"pocketName" example:"Needs"` // Name as snapshotted at allocation time
	Percentage decimal.Decimal `json:"percentage" example:"50"`    // Snapshotted percentage
	Amount     decimal.Decimal `json:"amount" example:"100000"`    // Share of this transaction's amount
}

// TransactionWithSources is a transaction of a holding together with
// its per-pocket funding breakdown.
type TransactionWithSources struct {
	Transaction
	Sources []TransactionSource `json:"sources"` // Empty when the transaction is not linked to an allocation
}

type HoldingTransactionsResponse struct {
	Data  []TransactionWithSources `json:"data"`                                                          // The holding's transactions, newest purchase first
	Error *string                  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetSourceListResponse struct {
	Data  []models.BudgetSource `json:"data"`                                                          // Which pockets funded the holding, largest contribution first
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
