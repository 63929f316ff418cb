package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
)

func (suite *TestSuiteStandard) TestHoldingsForBook() {
	book := suite.createTestBook(models.Book{})

	_ = suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:         book.ID,
		AssetType:      models.AssetTypeStock,
		AssetName:      "Stocks",
		InstrumentName: "BBCA",
		Amount:         decimal.NewFromInt(100000),
	})
	_ = suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:         book.ID,
		AssetType:      models.AssetTypeGold,
		AssetName:      "Gold",
		InstrumentName: "Antam",
		Amount:         decimal.NewFromInt(200000),
	})

	holdings, err := models.HoldingsForBook(models.DB, book.ID)
	suite.Assert().Nil(err)
	suite.Require().Len(holdings, 2)

	// Ordered by asset type, then instrument name
	suite.Assert().Equal("Antam", holdings[0].InstrumentName)
	suite.Assert().Equal(models.AssetTypeGold, holdings[0].Asset.Type)
	suite.Assert().Equal("BBCA", holdings[1].InstrumentName)
}

func (suite *TestSuiteStandard) TestUpdateHolding() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	platform := "Another Broker"
	note := "Migrated from the old broker"
	holding, err := models.UpdateHolding(models.DB, book.UserID, transaction.HoldingID, models.HoldingUpdate{
		Platform: &platform,
		Note:     &note,
	})
	suite.Assert().Nil(err)
	suite.Assert().Equal("Another Broker", holding.Platform)
	suite.Assert().Equal("Migrated from the old broker", holding.Note)
}

func (suite *TestSuiteStandard) TestUpdateHoldingNegativeInvestment() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	negative := decimal.NewFromInt(-1)
	_, err := models.UpdateHolding(models.DB, book.UserID, transaction.HoldingID, models.HoldingUpdate{
		TotalInvestment: &negative,
	})
	suite.Assert().ErrorIs(err, models.ErrTotalInvestmentNegative)
}

func (suite *TestSuiteStandard) TestDeleteHolding() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	err := models.DeleteHolding(models.DB, book.UserID, transaction.HoldingID)
	suite.Assert().Nil(err)

	// The transaction log goes with the holding
	var count int64
	err = models.DB.Model(&models.HoldingTransaction{}).Where("holding_id = ?", transaction.HoldingID).Count(&count).Error
	suite.Assert().Nil(err)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestHoldingForUser() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Assert().Nil(err)
	suite.Assert().Equal("Gold", holding.Asset.Name)

	_ = suite.createTestUser("user-holding-scope")
	_, err = models.HoldingForUser(models.DB, transaction.HoldingID, "user-holding-scope")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
