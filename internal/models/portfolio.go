package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio is the investment container of a book. It is created lazily
// when the first holding transaction for the book is recorded.
type Portfolio struct {
	DefaultModel
	Book   Book      `json:"-"`
	BookID uuid.UUID `gorm:"uniqueIndex;constraint:OnDelete:CASCADE"`
	Name   string
}

func (p *Portfolio) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	return nil
}

// AssetType classifies what kind of instrument an asset is.
//
// swagger:enum AssetType
type AssetType string

const (
	AssetTypeGold       AssetType = "gold"
	AssetTypeStock      AssetType = "stock"
	AssetTypeETF        AssetType = "etf"
	AssetTypeMutualFund AssetType = "mutual_fund"
	AssetTypeBond       AssetType = "bond"
	AssetTypeCrypto     AssetType = "crypto"
	AssetTypeOther      AssetType = "other"
)

// Valid reports whether the asset type is one of the known values.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeGold, AssetTypeStock, AssetTypeETF, AssetTypeMutualFund, AssetTypeBond, AssetTypeCrypto, AssetTypeOther:
		return true
	}

	return false
}

// Asset groups the holdings of a portfolio by classification and name,
// e.g. ("gold", "Antam") or ("etf", "MSCI World").
type Asset struct {
	DefaultModel
	Portfolio   Portfolio `json:"-"`
	PortfolioID uuid.UUID `gorm:"uniqueIndex:asset_portfolio_type_name;constraint:OnDelete:CASCADE"`
	Type        AssetType `gorm:"uniqueIndex:asset_portfolio_type_name"`
	Name        string    `gorm:"uniqueIndex:asset_portfolio_type_name"`
}

func (a *Asset) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)

	if !a.Type.Valid() {
		return ErrAssetTypeInvalid
	}

	return nil
}

// portfolioForBook returns the book's portfolio, creating it on first
// use with a name derived from the book.
func portfolioForBook(tx *gorm.DB, book Book) (Portfolio, error) {
	var portfolio Portfolio
	err := tx.Where(&Portfolio{BookID: book.ID}).First(&portfolio).Error
	if err == nil {
		return portfolio, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return Portfolio{}, err
	}

	portfolio = Portfolio{
		BookID: book.ID,
		Name:   book.Name + " Portfolio",
	}

	err = tx.Create(&portfolio).Error
	if err != nil {
		return Portfolio{}, err
	}

	return portfolio, nil
}

// assetForPortfolio returns the asset for the classification, creating
// it on first use.
func assetForPortfolio(tx *gorm.DB, portfolioID uuid.UUID, assetType AssetType, name string) (Asset, error) {
	var asset Asset
	err := tx.Where(&Asset{PortfolioID: portfolioID, Type: assetType, Name: name}).First(&asset).Error
	if err == nil {
		return asset, nil
	}

	if !errors.Is(err, ErrResourceNotFound) {
		return Asset{}, err
	}

	asset = Asset{
		PortfolioID: portfolioID,
		Type:        assetType,
		Name:        name,
	}

	err = tx.Create(&asset).Error
	if err != nil {
		return Asset{}, err
	}

	return asset, nil
}
