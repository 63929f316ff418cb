package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zulkamaula/money-mapper-monitor-v2/internal/split"
)

// Allocation is one deposit that has been split across the pockets of a
// book. It is immutable once created, it can only be deleted.
type Allocation struct {
	DefaultModel
	Book         Book            `json:"-"`
	BookID       uuid.UUID       `gorm:"constraint:OnDelete:CASCADE"`
	SourceAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Date         time.Time
	Note         string

	Items []AllocationItem `json:"items"`
}

// AllocationItem is one pocket's share of an allocation.
//
// Name and percentage are snapshots taken when the allocation is
// created. PocketID is a weak reference: the pocket may be renamed or
// deleted later without touching the item.
type AllocationItem struct {
	DefaultModel
	Allocation       Allocation `json:"-"`
	AllocationID     uuid.UUID  `gorm:"constraint:OnDelete:CASCADE"`
	PocketID         uuid.UUID  // No foreign key on purpose, the pocket may be long gone
	PocketName       string
	PocketPercentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Amount           decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// BeforeSave sets the timezone for the Date to UTC.
func (a *Allocation) BeforeSave(_ *gorm.DB) (err error) {
	if a.Date.IsZero() {
		a.Date = time.Now().In(time.UTC)
	} else {
		a.Date = a.Date.In(time.UTC)
	}

	return nil
}

// AfterFind updates the date to use UTC as timezone, not +0000.
func (a *Allocation) AfterFind(tx *gorm.DB) (err error) {
	a.Date = a.Date.In(time.UTC)
	return a.DefaultModel.AfterFind(tx)
}

// AllocationCreate holds everything needed to record a deposit.
type AllocationCreate struct {
	BookID       uuid.UUID
	SourceAmount decimal.Decimal
	Date         time.Time
	Note         string
	Weights      []split.Weight
}

// CreateAllocation splits the source amount across the weights and
// persists the allocation together with one item per weight.
//
// The items snapshot the pocket names and percentages as they are
// passed in. Either all rows are written or none.
func CreateAllocation(db *gorm.DB, userID string, create AllocationCreate) (Allocation, error) {
	if len(create.Weights) == 0 {
		return Allocation{}, ErrNoPockets
	}

	_, err := BookForUser(db, create.BookID, userID)
	if err != nil {
		return Allocation{}, err
	}

	shares, err := split.Shares(create.SourceAmount, create.Weights)
	if err != nil {
		switch {
		case errors.Is(err, split.ErrAmountNotPositive):
			return Allocation{}, ErrSourceAmountNotPositive
		case errors.Is(err, split.ErrAmountNotInteger):
			return Allocation{}, ErrSourceAmountNotInteger
		}

		return Allocation{}, err
	}

	allocation := Allocation{
		BookID:       create.BookID,
		SourceAmount: create.SourceAmount,
		Date:         create.Date,
		Note:         create.Note,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&allocation).Error
		if err != nil {
			return err
		}

		for _, share := range shares {
			item := AllocationItem{
				AllocationID:     allocation.ID,
				PocketID:         share.ID,
				PocketName:       share.Name,
				PocketPercentage: share.Percentage,
				Amount:           share.Amount,
			}

			err = tx.Create(&item).Error
			if err != nil {
				return err
			}

			allocation.Items = append(allocation.Items, item)
		}

		return nil
	})
	if err != nil {
		return Allocation{}, err
	}

	return allocation, nil
}

// DeleteAllocation removes the allocation and its items.
//
// Holding transactions that were funded from the allocation are
// unlinked, never deleted: the purchase history survives even when its
// funding provenance is erased.
func DeleteAllocation(db *gorm.DB, userID string, id uuid.UUID) error {
	allocation, err := AllocationForUser(db, id, userID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// The holdings whose budget source rows reference this
		// allocation, collected before the link is severed
		var holdingIDs []uuid.UUID
		err := tx.Model(&HoldingTransaction{}).
			Where(&HoldingTransaction{AllocationID: &allocation.ID}).
			Distinct("holding_id").
			Pluck("holding_id", &holdingIDs).Error
		if err != nil {
			return err
		}

		err = tx.Model(&HoldingTransaction{}).
			Where(&HoldingTransaction{AllocationID: &allocation.ID}).
			Update("allocation_id", nil).Error
		if err != nil {
			return err
		}

		err = tx.Where(&AllocationItem{AllocationID: allocation.ID}).Delete(&AllocationItem{}).Error
		if err != nil {
			return err
		}

		err = tx.Delete(&allocation).Error
		if err != nil {
			return err
		}

		// The unlinked transactions no longer contribute, so the
		// precomputed rows of their holdings have to be rederived
		for _, holdingID := range holdingIDs {
			err = rebuildBudgetSources(tx, holdingID)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// AllocationForUser returns the allocation only when its book belongs
// to the user.
func AllocationForUser(db *gorm.DB, id uuid.UUID, userID string) (Allocation, error) {
	var allocation Allocation
	err := db.
		Joins("JOIN books ON books.id = allocations.book_id").
		Where("allocations.id = ? AND books.user_id = ?", id, userID).
		First(&allocation).Error
	if err != nil {
		return Allocation{}, err
	}

	return allocation, nil
}

// AllocationsForBook returns the book's allocations with their items,
// most recent date first, ties broken by most recent creation.
func AllocationsForBook(db *gorm.DB, bookID uuid.UUID) ([]Allocation, error) {
	var allocations []Allocation
	err := db.
		Preload("Items").
		Where(&Allocation{BookID: bookID}).
		Order("datetime(allocations.date) DESC, datetime(allocations.created_at) DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// LinkedTransactionStats summarizes the holding transactions funded
// from an allocation.
type LinkedTransactionStats struct {
	TransactionCount int64           `json:"transactionCount"` // Number of funded transactions
	TotalAllocated   decimal.Decimal `json:"totalAllocated"`   // Sum of their amounts
}

// LinkedTransactionStats aggregates over all holding transactions that
// reference the allocation.
func (a Allocation) LinkedTransactionStats(db *gorm.DB) (LinkedTransactionStats, error) {
	var transactions []HoldingTransaction
	err := db.Where(&HoldingTransaction{AllocationID: &a.ID}).Find(&transactions).Error
	if err != nil {
		return LinkedTransactionStats{}, err
	}

	stats := LinkedTransactionStats{TotalAllocated: decimal.Zero}
	for _, transaction := range transactions {
		stats.TransactionCount++
		stats.TotalAllocated = stats.TotalAllocated.Add(transaction.Amount)
	}

	return stats, nil
}

// LinkedTransactions returns all holding transactions funded from the
// allocation, newest purchase first.
func (a Allocation) LinkedTransactions(db *gorm.DB) ([]HoldingTransaction, error) {
	var transactions []HoldingTransaction
	err := db.
		Preload("Holding").
		Preload("Holding.Asset").
		Where(&HoldingTransaction{AllocationID: &a.ID}).
		Order("datetime(holding_transactions.purchase_date) DESC, datetime(holding_transactions.created_at) DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
