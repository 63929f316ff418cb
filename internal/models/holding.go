package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding is one investment position: an instrument on a platform,
// belonging to an asset.
//
// The aggregate fields are rolled up from the holding's transaction
// log. The log is authoritative: the increments applied on transaction
// creation are an optimization that a full recompute can always
// correct, and every transaction edit or delete triggers that
// recompute.
type Holding struct {
	DefaultModel
	Asset Asset `json:"-"`
	// The unique index is partial over live rows: a holding that was
	// deleted when its last transaction went must not block buying the
	// same instrument again.
	AssetID          uuid.UUID       `gorm:"uniqueIndex:holding_asset_platform_instrument,where:deleted_at IS NULL;constraint:OnDelete:CASCADE"`
	Platform         string          `gorm:"uniqueIndex:holding_asset_platform_instrument"`
	InstrumentName   string          `gorm:"uniqueIndex:holding_asset_platform_instrument"`
	TotalInvestment  decimal.Decimal `gorm:"type:DECIMAL(20,8);check:total_investment_not_negative,total_investment >= 0"`
	TotalQuantity    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TransactionCount int64
	Note             string
}

// HoldingForUser returns the holding only when its book belongs to the
// user. Ownership runs through the full chain
// book -> portfolio -> asset -> holding.
func HoldingForUser(db *gorm.DB, id uuid.UUID, userID string) (Holding, error) {
	var holding Holding
	err := db.
		Preload("Asset").
		Joins("JOIN assets ON assets.id = holdings.asset_id").
		Joins("JOIN portfolios ON portfolios.id = assets.portfolio_id").
		Joins("JOIN books ON books.id = portfolios.book_id").
		Where("holdings.id = ? AND books.user_id = ?", id, userID).
		First(&holding).Error
	if err != nil {
		return Holding{}, err
	}

	return holding, nil
}

// HoldingsForBook returns all holdings of a book with their assets.
func HoldingsForBook(db *gorm.DB, bookID uuid.UUID) ([]Holding, error) {
	var holdings []Holding
	err := db.
		Preload("Asset").
		Joins("JOIN assets ON assets.id = holdings.asset_id").
		Joins("JOIN portfolios ON portfolios.id = assets.portfolio_id").
		Where("portfolios.book_id = ?", bookID).
		Order("assets.type ASC, holdings.instrument_name ASC").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}

	return holdings, nil
}

// HoldingUpdate contains the aggregate fields that may be corrected
// manually. This is an exceptional path, the normal flow is always
// through transactions.
type HoldingUpdate struct {
	Platform        *string
	InstrumentName  *string
	TotalInvestment *decimal.Decimal
	TotalQuantity   *decimal.Decimal
	Note            *string
}

// UpdateHolding applies a manual correction to the holding.
func UpdateHolding(db *gorm.DB, userID string, id uuid.UUID, update HoldingUpdate) (Holding, error) {
	holding, err := HoldingForUser(db, id, userID)
	if err != nil {
		return Holding{}, err
	}

	fields := map[string]any{}
	if update.Platform != nil {
		fields["platform"] = *update.Platform
	}
	if update.InstrumentName != nil {
		fields["instrument_name"] = *update.InstrumentName
	}
	if update.TotalInvestment != nil {
		fields["total_investment"] = *update.TotalInvestment
	}
	if update.TotalQuantity != nil {
		fields["total_quantity"] = *update.TotalQuantity
	}
	if update.Note != nil {
		fields["note"] = *update.Note
	}

	if len(fields) > 0 {
		err = db.Model(&holding).Updates(fields).Error
		if err != nil {
			return Holding{}, err
		}
	}

	return holding, nil
}

// DeleteHolding removes the holding together with its transaction log
// and budget source rows.
func DeleteHolding(db *gorm.DB, userID string, id uuid.UUID) error {
	holding, err := HoldingForUser(db, id, userID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return deleteHolding(tx, holding)
	})
}

func deleteHolding(tx *gorm.DB, holding Holding) error {
	err := tx.Where(&HoldingTransaction{HoldingID: holding.ID}).Delete(&HoldingTransaction{}).Error
	if err != nil {
		return err
	}

	err = tx.Where(&HoldingBudgetSource{HoldingID: holding.ID}).Delete(&HoldingBudgetSource{}).Error
	if err != nil {
		return err
	}

	return tx.Delete(&holding).Error
}

// recalculateAggregates overwrites the holding's aggregate fields with
// COUNT and SUM over its remaining transactions. When no transactions
// remain, the holding is deleted instead of keeping a zeroed husk.
func recalculateAggregates(tx *gorm.DB, holding Holding) error {
	type aggregate struct {
		TransactionCount int64
		TotalInvestment  decimal.NullDecimal
		TotalQuantity    decimal.NullDecimal
	}

	var agg aggregate
	err := tx.Model(&HoldingTransaction{}).
		Select("COUNT(*) AS transaction_count, SUM(amount) AS total_investment, SUM(quantity) AS total_quantity").
		Where(&HoldingTransaction{HoldingID: holding.ID}).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	if agg.TransactionCount == 0 {
		return deleteHolding(tx, holding)
	}

	return tx.Model(&holding).Updates(map[string]any{
		"transaction_count": agg.TransactionCount,
		"total_investment":  agg.TotalInvestment.Decimal,
		"total_quantity":    agg.TotalQuantity.Decimal,
	}).Error
}
