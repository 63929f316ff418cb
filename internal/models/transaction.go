package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType describes the effect of a holding transaction.
//
// swagger:enum TransactionType
type TransactionType string

const (
	TransactionTypeBuy        TransactionType = "buy"
	TransactionTypeSell       TransactionType = "sell"
	TransactionTypeDividend   TransactionType = "dividend"
	TransactionTypeFee        TransactionType = "fee"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// Valid reports whether the transaction type is one of the known values.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeDividend, TransactionTypeFee, TransactionTypeAdjustment:
		return true
	}

	return false
}

// HoldingTransaction is one event against a holding. The holding's
// aggregates are always derivable from these rows.
//
// AllocationID is a weak reference to the allocation that funded the
// transaction. Deleting the allocation sets it to null, it never
// deletes the transaction.
type HoldingTransaction struct {
	DefaultModel
	Holding      Holding          `json:"-"`
	HoldingID    uuid.UUID        `gorm:"constraint:OnDelete:CASCADE"`
	Type         TransactionType  `gorm:"default:buy"`
	Amount       decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	Quantity     decimal.Decimal  `gorm:"type:DECIMAL(20,8)"`
	AveragePrice *decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	PurchaseDate *time.Time
	Note         string
	Allocation   Allocation `json:"-"`
	AllocationID *uuid.UUID `gorm:"constraint:OnDelete:SET NULL"`
}

// HoldingTransactionCreate holds everything needed to record a
// purchase. Portfolio, asset and holding are resolved or created
// lazily from it.
type HoldingTransactionCreate struct {
	BookID         uuid.UUID
	AssetType      AssetType
	AssetName      string
	Platform       string
	InstrumentName string
	Type           TransactionType
	Amount         decimal.Decimal
	Quantity       decimal.Decimal
	AveragePrice   *decimal.Decimal
	PurchaseDate   *time.Time
	Note           string
	AllocationID   *uuid.UUID
}

func (create HoldingTransactionCreate) validate() error {
	if !create.AssetType.Valid() {
		return ErrAssetTypeInvalid
	}

	if create.Type != "" && !create.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if !create.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if !create.Quantity.IsPositive() {
		return ErrQuantityNotPositive
	}

	if create.AveragePrice != nil && !create.AveragePrice.IsPositive() {
		return ErrAveragePriceNotPositive
	}

	return nil
}

// CreateHoldingTransaction records a transaction against a holding,
// resolving the portfolio, asset and holding lazily.
//
// The holding's aggregates are incremented in the same database
// transaction with an atomic SET x = x + delta expression, so that two
// concurrent purchases of the same holding cannot lose an update. When
// an allocation link is present, the transaction amount is fanned out
// across the allocation's item snapshots into the holding's budget
// source rows.
func CreateHoldingTransaction(db *gorm.DB, userID string, create HoldingTransactionCreate) (HoldingTransaction, error) {
	err := create.validate()
	if err != nil {
		return HoldingTransaction{}, err
	}

	book, err := BookForUser(db, create.BookID, userID)
	if err != nil {
		return HoldingTransaction{}, err
	}

	// When the purchase is funded from an allocation, the allocation has
	// to exist and belong to the same user. Its items are read up front,
	// their snapshots drive the budget source accumulation.
	var items []AllocationItem
	if create.AllocationID != nil {
		allocation, err := AllocationForUser(db, *create.AllocationID, userID)
		if err != nil {
			return HoldingTransaction{}, err
		}

		err = db.Where(&AllocationItem{AllocationID: allocation.ID}).Order("created_at ASC").Find(&items).Error
		if err != nil {
			return HoldingTransaction{}, err
		}
	}

	transaction := HoldingTransaction{
		Type:         create.Type,
		Amount:       create.Amount,
		Quantity:     create.Quantity,
		AveragePrice: create.AveragePrice,
		PurchaseDate: create.PurchaseDate,
		Note:         create.Note,
		AllocationID: create.AllocationID,
	}

	if transaction.Type == "" {
		transaction.Type = TransactionTypeBuy
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		portfolio, err := portfolioForBook(tx, book)
		if err != nil {
			return err
		}

		asset, err := assetForPortfolio(tx, portfolio.ID, create.AssetType, create.AssetName)
		if err != nil {
			return err
		}

		holding, err := holdingForAsset(tx, asset.ID, create.Platform, create.InstrumentName)
		if err != nil {
			return err
		}

		transaction.HoldingID = holding.ID
		err = tx.Create(&transaction).Error
		if err != nil {
			return err
		}

		err = tx.Model(&Holding{}).Where("id = ?", holding.ID).Updates(map[string]any{
			"total_investment":  gorm.Expr("total_investment + ?", create.Amount),
			"total_quantity":    gorm.Expr("total_quantity + ?", create.Quantity),
			"transaction_count": gorm.Expr("transaction_count + 1"),
		}).Error
		if err != nil {
			return err
		}

		if len(items) > 0 {
			return accumulateBudgetSources(tx, holding.ID, items, create.Amount)
		}

		return nil
	})
	if err != nil {
		return HoldingTransaction{}, err
	}

	return transaction, nil
}

// holdingForAsset returns the holding for the platform and instrument,
// creating it with zeroed aggregates on first use.
func holdingForAsset(tx *gorm.DB, assetID uuid.UUID, platform, instrumentName string) (Holding, error) {
	var holding Holding
	err := tx.Where(&Holding{AssetID: assetID, Platform: platform, InstrumentName: instrumentName}).First(&holding).Error
	if err == nil {
		return holding, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return Holding{}, err
	}

	holding = Holding{
		AssetID:          assetID,
		Platform:         platform,
		InstrumentName:   instrumentName,
		TotalInvestment:  decimal.Zero,
		TotalQuantity:    decimal.Zero,
		TransactionCount: 0,
	}

	createErr := tx.Create(&holding).Error
	if createErr != nil {
		return Holding{}, createErr
	}

	return holding, nil
}

// HoldingTransactionUpdate contains the fields of a transaction that
// can be edited. Nil fields are left untouched.
type HoldingTransactionUpdate struct {
	Amount       *decimal.Decimal
	Quantity     *decimal.Decimal
	AveragePrice *decimal.Decimal
	PurchaseDate *time.Time
	Note         *string
}

func (update HoldingTransactionUpdate) validate() error {
	if update.Amount != nil && !update.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if update.Quantity != nil && !update.Quantity.IsPositive() {
		return ErrQuantityNotPositive
	}

	if update.AveragePrice != nil && !update.AveragePrice.IsPositive() {
		return ErrAveragePriceNotPositive
	}

	return nil
}

// UpdateHoldingTransaction edits a transaction and reconciles all
// derived state: the holding's aggregates are recomputed from scratch
// and the budget source rows are rebuilt from the remaining log.
func UpdateHoldingTransaction(db *gorm.DB, userID string, id uuid.UUID, update HoldingTransactionUpdate) (HoldingTransaction, error) {
	err := update.validate()
	if err != nil {
		return HoldingTransaction{}, err
	}

	transaction, err := HoldingTransactionForUser(db, id, userID)
	if err != nil {
		return HoldingTransaction{}, err
	}

	fields := map[string]any{}
	if update.Amount != nil {
		fields["amount"] = *update.Amount
	}
	if update.Quantity != nil {
		fields["quantity"] = *update.Quantity
	}
	if update.AveragePrice != nil {
		fields["average_price"] = *update.AveragePrice
	}
	if update.PurchaseDate != nil {
		fields["purchase_date"] = *update.PurchaseDate
	}
	if update.Note != nil {
		fields["note"] = *update.Note
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			err := tx.Model(&transaction).Updates(fields).Error
			if err != nil {
				return err
			}
		}

		var holding Holding
		err := tx.First(&holding, transaction.HoldingID).Error
		if err != nil {
			return err
		}

		err = recalculateAggregates(tx, holding)
		if err != nil {
			return err
		}

		return rebuildBudgetSources(tx, holding.ID)
	})
	if err != nil {
		return HoldingTransaction{}, err
	}

	return transaction, nil
}

// DeleteHoldingTransaction removes a transaction and reconciles all
// derived state. When the holding's last transaction goes, the holding
// goes with it.
func DeleteHoldingTransaction(db *gorm.DB, userID string, id uuid.UUID) error {
	transaction, err := HoldingTransactionForUser(db, id, userID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var holding Holding
		err := tx.First(&holding, transaction.HoldingID).Error
		if err != nil {
			return err
		}

		err = tx.Delete(&transaction).Error
		if err != nil {
			return err
		}

		err = recalculateAggregates(tx, holding)
		if err != nil {
			return err
		}

		// recalculateAggregates deletes the holding and its budget
		// sources when the log is empty, nothing left to rebuild then.
		var count int64
		err = tx.Model(&Holding{}).Where("id = ?", holding.ID).Count(&count).Error
		if err != nil {
			return err
		}

		if count == 0 {
			return nil
		}

		return rebuildBudgetSources(tx, holding.ID)
	})
}

// HoldingTransactionForUser returns the transaction only when its book
// belongs to the user.
func HoldingTransactionForUser(db *gorm.DB, id uuid.UUID, userID string) (HoldingTransaction, error) {
	var transaction HoldingTransaction
	err := db.
		Joins("JOIN holdings ON holdings.id = holding_transactions.holding_id").
		Joins("JOIN assets ON assets.id = holdings.asset_id").
		Joins("JOIN portfolios ON portfolios.id = assets.portfolio_id").
		Joins("JOIN books ON books.id = portfolios.book_id").
		Where("holding_transactions.id = ? AND books.user_id = ?", id, userID).
		First(&transaction).Error
	if err != nil {
		return HoldingTransaction{}, err
	}

	return transaction, nil
}

// Transactions returns the holding's transaction log, newest purchase
// first.
func (h Holding) Transactions(db *gorm.DB) ([]HoldingTransaction, error) {
	var transactions []HoldingTransaction
	err := db.
		Where(&HoldingTransaction{HoldingID: h.ID}).
		Order("datetime(holding_transactions.purchase_date) DESC, datetime(holding_transactions.created_at) DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
