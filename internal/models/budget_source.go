package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hundred = decimal.NewFromInt(100)

// HoldingBudgetSource accumulates how much of a holding's funding
// traces back to one pocket, keyed by (holding, pocket).
//
// It is a derived cache over the holding's linked transactions and
// their allocation item snapshots, kept for fast reads. It is
// incremented on transaction creation and rebuilt from the log on
// every transaction edit or delete, so it always agrees with
// BudgetSources.
type HoldingBudgetSource struct {
	Holding               Holding         `json:"-"`
	HoldingID             uuid.UUID       `gorm:"primaryKey;constraint:OnDelete:CASCADE"`
	PocketID              uuid.UUID       `gorm:"primaryKey"` // Weak reference, the pocket may be gone
	PocketName            string          // Snapshot, survives pocket renames
	AccumulatedPercentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	AccumulatedAmount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TransactionCount      int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// accumulateBudgetSources fans the transaction amount out across the
// allocation item snapshots and upserts one row per pocket.
//
// The share is based on the transaction's own amount, not the
// allocation's source amount: a 200000 purchase funded from a 50%
// pocket contributes 100000, no matter how large the deposit was.
func accumulateBudgetSources(tx *gorm.DB, holdingID uuid.UUID, items []AllocationItem, transactionAmount decimal.Decimal) error {
	for _, item := range items {
		share := transactionAmount.Mul(item.PocketPercentage).Div(hundred)

		source := HoldingBudgetSource{
			HoldingID:             holdingID,
			PocketID:              item.PocketID,
			PocketName:            item.PocketName,
			AccumulatedPercentage: item.PocketPercentage,
			AccumulatedAmount:     share,
			TransactionCount:      1,
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "holding_id"}, {Name: "pocket_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"accumulated_percentage": gorm.Expr("accumulated_percentage + ?", item.PocketPercentage),
				"accumulated_amount":     gorm.Expr("accumulated_amount + ?", share),
				"transaction_count":      gorm.Expr("transaction_count + 1"),
				"updated_at":             time.Now().In(time.UTC),
			}),
		}).Create(&source).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// rebuildBudgetSources recreates the holding's budget source rows from
// its remaining linked transactions.
//
// Incremental accumulation drifts as soon as a linked transaction is
// edited or deleted, so every such mutation ends with a rebuild.
func rebuildBudgetSources(tx *gorm.DB, holdingID uuid.UUID) error {
	err := tx.Where(&HoldingBudgetSource{HoldingID: holdingID}).Delete(&HoldingBudgetSource{}).Error
	if err != nil {
		return err
	}

	var transactions []HoldingTransaction
	err = tx.Where(&HoldingTransaction{HoldingID: holdingID}).
		Where("allocation_id IS NOT NULL").
		Order("datetime(created_at) ASC").
		Find(&transactions).Error
	if err != nil {
		return err
	}

	for _, transaction := range transactions {
		var items []AllocationItem
		err = tx.Where(&AllocationItem{AllocationID: *transaction.AllocationID}).Order("created_at ASC").Find(&items).Error
		if err != nil {
			return err
		}

		err = accumulateBudgetSources(tx, holdingID, items, transaction.Amount)
		if err != nil {
			return err
		}
	}

	return nil
}

// BudgetSource is one pocket's contribution to a holding's funding in
// the read-side report.
type BudgetSource struct {
	PocketName       string          `json:"pocketName"`       // Name as snapshotted at allocation time
	Amount           decimal.Decimal `json:"amount"`           // Contribution across all linked transactions
	Percentage       decimal.Decimal `json:"percentage"`       // Share of the holding's total linked amount
	TransactionCount int64           `json:"transactionCount"` // Number of transactions contributing
}

// BudgetSources reports which pockets funded the holding.
//
// It walks the holding's linked transactions and their allocation item
// snapshots, grouping contributions by the snapshotted pocket name.
// Renaming or deleting the live pocket does not change the report. The
// result is ordered by amount, largest contribution first, input order
// for equal amounts.
func (h Holding) BudgetSources(db *gorm.DB) ([]BudgetSource, error) {
	transactions, err := h.Transactions(db)
	if err != nil {
		return nil, err
	}

	var order []string
	contributions := make(map[string]*BudgetSource)
	linkedTotal := decimal.Zero

	for _, transaction := range transactions {
		if transaction.AllocationID == nil {
			continue
		}

		var items []AllocationItem
		err = db.Where(&AllocationItem{AllocationID: *transaction.AllocationID}).Order("created_at ASC").Find(&items).Error
		if err != nil {
			return nil, err
		}

		linkedTotal = linkedTotal.Add(transaction.Amount)
		for _, item := range items {
			share := transaction.Amount.Mul(item.PocketPercentage).Div(hundred)

			contribution, ok := contributions[item.PocketName]
			if !ok {
				contribution = &BudgetSource{PocketName: item.PocketName, Amount: decimal.Zero}
				contributions[item.PocketName] = contribution
				order = append(order, item.PocketName)
			}

			contribution.Amount = contribution.Amount.Add(share)
			contribution.TransactionCount++
		}
	}

	sources := make([]BudgetSource, 0, len(order))
	for _, name := range order {
		contribution := contributions[name]
		if linkedTotal.IsPositive() {
			contribution.Percentage = contribution.Amount.Div(linkedTotal).Mul(hundred)
		}

		sources = append(sources, *contribution)
	}

	slices.SortStableFunc(sources, func(a, b BudgetSource) int {
		return b.Amount.Cmp(a.Amount)
	})

	return sources, nil
}

// AccumulatedBudgetSources returns the precomputed budget source rows
// for the holding, largest contribution first. This is the fast path
// over the same data that BudgetSources derives from the log.
func (h Holding) AccumulatedBudgetSources(db *gorm.DB) ([]HoldingBudgetSource, error) {
	var sources []HoldingBudgetSource
	err := db.
		Where(&HoldingBudgetSource{HoldingID: h.ID}).
		Order("accumulated_amount DESC").
		Find(&sources).Error
	if err != nil {
		return nil, err
	}

	return sources, nil
}
