package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is an envelope budget. It is the highest level of organization in
// Money Mapper, all other resources reference it directly or transitively.
type Book struct {
	DefaultModel
	User User `json:"-"`
	// Partial over live rows so that a deleted book does not block
	// re-creating one with the same name
	UserID       string `gorm:"uniqueIndex:book_name_user_id,where:deleted_at IS NULL"`
	Name         string `gorm:"uniqueIndex:book_name_user_id"`
	Note         string
	OrderIndex   uint // Position in the user's book list, 0 is the top
	HasPortfolio bool // Whether investment tracking is enabled for the book
}

// BeforeSave trims whitespace from all strings
func (b *Book) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	return nil
}

// BookForUser returns the book only when it belongs to the user.
//
// Resources of other users report as not found so that their existence
// is not leaked.
func BookForUser(db *gorm.DB, id uuid.UUID, userID string) (Book, error) {
	var book Book
	err := db.Where(&Book{UserID: userID}).First(&book, id).Error
	if err != nil {
		return Book{}, err
	}

	return book, nil
}

// CreateBook inserts the book at the top of the user's list and shifts
// all existing books down by one position.
func CreateBook(db *gorm.DB, book *Book) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Book{}).
			Where(&Book{UserID: book.UserID}).
			Update("order_index", gorm.Expr("order_index + 1")).Error
		if err != nil {
			return err
		}

		book.OrderIndex = 0
		return tx.Create(book).Error
	})
}

// ReorderBooks persists the order of the given book IDs. All IDs must
// reference books of the user.
func ReorderBooks(db *gorm.DB, userID string, ids []uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			book, err := BookForUser(tx, id, userID)
			if err != nil {
				return err
			}

			err = tx.Model(&book).Update("order_index", uint(i)).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// Pockets returns all pockets of the book in display order.
func (b Book) Pockets(db *gorm.DB) ([]Pocket, error) {
	var pockets []Pocket
	err := db.Where(&Pocket{BookID: b.ID}).Order("order_index ASC, name ASC").Find(&pockets).Error
	if err != nil {
		return nil, err
	}

	return pockets, nil
}
