package models

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User mirrors the subject of the identity provider's token. It only
// exists so that resources have an owner to be scoped by.
type User struct {
	ID    string `gorm:"primaryKey"` // Subject claim of the token
	Email string
	Timestamps
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.ID = strings.TrimSpace(u.ID)
	u.Email = strings.TrimSpace(u.Email)

	return nil
}

// UpsertUser creates the user row on first contact and keeps the email
// current afterwards.
func UpsertUser(db *gorm.DB, id, email string) error {
	user := User{ID: id, Email: email}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at"}),
	}).Create(&user).Error
}
