package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pocket is a named envelope within a book, weighted with a percentage
// of every deposit.
//
// The percentages of a book's pockets are not forced to sum to 100,
// that is up to the user. Allocations snapshot the pocket name and
// percentage at creation time, so editing or deleting a pocket never
// changes historical allocation items.
type Pocket struct {
	DefaultModel
	Book       Book      `json:"-"`
	BookID     uuid.UUID `gorm:"constraint:OnDelete:CASCADE"`
	Name       string
	Percentage decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	OrderIndex uint
}

func (p *Pocket) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)

	if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
		return ErrPercentageOutOfRange
	}

	return nil
}

func (p *Pocket) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Pocket)
	return p.checkIntegrity(tx, *toSave)
}

func (p *Pocket) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Pocket)

	if tx.Statement.Changed("BookID") {
		err := p.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (p *Pocket) checkIntegrity(tx *gorm.DB, toSave Pocket) error {
	return tx.First(&Book{}, toSave.BookID).Error
}

// PocketForUser returns the pocket only when its book belongs to the user.
func PocketForUser(db *gorm.DB, id uuid.UUID, userID string) (Pocket, error) {
	var pocket Pocket
	err := db.
		Joins("JOIN books ON books.id = pockets.book_id").
		Where("pockets.id = ? AND books.user_id = ?", id, userID).
		First(&pocket).Error
	if err != nil {
		return Pocket{}, err
	}

	return pocket, nil
}
