package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
)

func (suite *TestSuiteStandard) TestCreateHoldingTransactionLazily() {
	book := suite.createTestBook(models.Book{Name: "Investments"})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:   book.ID,
		Amount:   decimal.NewFromInt(200000),
		Quantity: decimal.NewFromFloat(0.2),
	})

	suite.Assert().Equal(models.TransactionTypeBuy, transaction.Type)

	// The first purchase creates the portfolio, the asset and the
	// holding on the fly
	var portfolio models.Portfolio
	err := models.DB.Where(&models.Portfolio{BookID: book.ID}).First(&portfolio).Error
	suite.Assert().Nil(err)
	suite.Assert().Equal("Investments Portfolio", portfolio.Name)

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Assert().Nil(err)
	suite.Assert().True(holding.TotalInvestment.Equal(decimal.NewFromInt(200000)), "total investment is %s", holding.TotalInvestment)
	suite.Assert().True(holding.TotalQuantity.Equal(decimal.NewFromFloat(0.2)), "total quantity is %s", holding.TotalQuantity)
	suite.Assert().Equal(int64(1), holding.TransactionCount)
}

func (suite *TestSuiteStandard) TestCreateHoldingTransactionReusesHolding() {
	book := suite.createTestBook(models.Book{})

	first := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:   book.ID,
		Amount:   decimal.NewFromInt(100000),
		Quantity: decimal.NewFromInt(1),
	})

	second := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:   book.ID,
		Amount:   decimal.NewFromInt(50000),
		Quantity: decimal.NewFromInt(2),
	})

	// Same asset, platform and instrument, so both purchases land on
	// one holding
	suite.Assert().Equal(first.HoldingID, second.HoldingID)

	holding, err := models.HoldingForUser(models.DB, first.HoldingID, book.UserID)
	suite.Assert().Nil(err)
	suite.Assert().True(holding.TotalInvestment.Equal(decimal.NewFromInt(150000)), "total investment is %s", holding.TotalInvestment)
	suite.Assert().True(holding.TotalQuantity.Equal(decimal.NewFromInt(3)), "total quantity is %s", holding.TotalQuantity)
	suite.Assert().Equal(int64(2), holding.TransactionCount)
}

func (suite *TestSuiteStandard) TestCreateHoldingTransactionValidation() {
	book := suite.createTestBook(models.Book{})

	tests := []struct {
		name   string
		create models.HoldingTransactionCreate
		err    error
	}{
		{
			"invalid asset type",
			models.HoldingTransactionCreate{AssetType: "tulips", Amount: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(1)},
			models.ErrAssetTypeInvalid,
		},
		{
			"invalid transaction type",
			models.HoldingTransactionCreate{AssetType: models.AssetTypeGold, Type: "barter", Amount: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(1)},
			models.ErrTransactionTypeInvalid,
		},
		{
			"zero amount",
			models.HoldingTransactionCreate{AssetType: models.AssetTypeGold, Quantity: decimal.NewFromInt(1)},
			models.ErrAmountNotPositive,
		},
		{
			"zero quantity",
			models.HoldingTransactionCreate{AssetType: models.AssetTypeGold, Amount: decimal.NewFromInt(1)},
			models.ErrQuantityNotPositive,
		},
		{
			"negative average price",
			models.HoldingTransactionCreate{AssetType: models.AssetTypeGold, Amount: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(1), AveragePrice: decimalP(-5)},
			models.ErrAveragePriceNotPositive,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			tt.create.BookID = book.ID
			_, err := models.CreateHoldingTransaction(models.DB, book.UserID, tt.create)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func decimalP(i int64) *decimal.Decimal {
	d := decimal.NewFromInt(i)
	return &d
}

func (suite *TestSuiteStandard) TestUpdateHoldingTransactionRecalculates() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:   book.ID,
		Amount:   decimal.NewFromInt(100000),
		Quantity: decimal.NewFromInt(10),
	})

	_, err := models.UpdateHoldingTransaction(models.DB, book.UserID, transaction.ID, models.HoldingTransactionUpdate{
		Amount: decimalP(70000),
	})
	suite.Assert().Nil(err)

	// The aggregates are recomputed from the log, not patched
	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Assert().Nil(err)
	suite.Assert().True(holding.TotalInvestment.Equal(decimal.NewFromInt(70000)), "total investment is %s", holding.TotalInvestment)
	suite.Assert().True(holding.TotalQuantity.Equal(decimal.NewFromInt(10)), "total quantity is %s", holding.TotalQuantity)
	suite.Assert().Equal(int64(1), holding.TransactionCount)
}

func (suite *TestSuiteStandard) TestUpdateHoldingTransactionValidation() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	_, err := models.UpdateHoldingTransaction(models.DB, book.UserID, transaction.ID, models.HoldingTransactionUpdate{
		Amount: decimalP(-1),
	})
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)
}

func (suite *TestSuiteStandard) TestDeleteHoldingTransaction() {
	book := suite.createTestBook(models.Book{})

	first := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:   book.ID,
		Amount:   decimal.NewFromInt(100000),
		Quantity: decimal.NewFromInt(1),
	})
	second := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:   book.ID,
		Amount:   decimal.NewFromInt(50000),
		Quantity: decimal.NewFromInt(1),
	})

	err := models.DeleteHoldingTransaction(models.DB, book.UserID, second.ID)
	suite.Assert().Nil(err)

	holding, err := models.HoldingForUser(models.DB, first.HoldingID, book.UserID)
	suite.Assert().Nil(err)
	suite.Assert().True(holding.TotalInvestment.Equal(decimal.NewFromInt(100000)), "total investment is %s", holding.TotalInvestment)
	suite.Assert().Equal(int64(1), holding.TransactionCount)

	// Deleting the last transaction deletes the holding, a position
	// without any events does not exist
	err = models.DeleteHoldingTransaction(models.DB, book.UserID, first.ID)
	suite.Assert().Nil(err)

	_, err = models.HoldingForUser(models.DB, first.HoldingID, book.UserID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestHoldingRecreatedAfterAutoDelete() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	err := models.DeleteHoldingTransaction(models.DB, book.UserID, transaction.ID)
	suite.Require().Nil(err)

	_, err = models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().ErrorIs(err, models.ErrResourceNotFound)

	// Buying the identical instrument again creates a fresh position
	// instead of tripping over the deleted one
	recreated := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(50000),
	})
	suite.Assert().NotEqual(transaction.HoldingID, recreated.HoldingID)

	holding, err := models.HoldingForUser(models.DB, recreated.HoldingID, book.UserID)
	suite.Require().Nil(err)
	suite.Assert().True(holding.TotalInvestment.Equal(decimal.NewFromInt(50000)), "total investment is %s", holding.TotalInvestment)
	suite.Assert().Equal(int64(1), holding.TransactionCount)
}

func (suite *TestSuiteStandard) TestHoldingTransactionForUser() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(100000),
	})

	_, err := models.HoldingTransactionForUser(models.DB, transaction.ID, book.UserID)
	suite.Assert().Nil(err)

	_ = suite.createTestUser("user-transaction-scope")
	_, err = models.HoldingTransactionForUser(models.DB, transaction.ID, "user-transaction-scope")
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestCreateHoldingTransactionOtherUserAllocation() {
	book := suite.createTestBook(models.Book{})
	pocket := suite.createTestPocket(models.Pocket{BookID: book.ID, Name: "Needs", Percentage: decimal.NewFromInt(50)})
	allocation := suite.createTestAllocation(book.UserID, models.AllocationCreate{
		BookID:       book.ID,
		SourceAmount: decimal.NewFromInt(100),
		Weights:      weightsFor(pocket),
	})

	otherBook := suite.createTestBook(models.Book{})

	// Linking an allocation of another user reports as not found
	_, err := models.CreateHoldingTransaction(models.DB, otherBook.UserID, models.HoldingTransactionCreate{
		BookID:         otherBook.ID,
		AssetType:      models.AssetTypeGold,
		AssetName:      "Gold",
		Platform:       "Broker",
		InstrumentName: "Bar",
		Amount:         decimal.NewFromInt(100),
		Quantity:       decimal.NewFromInt(1),
		AllocationID:   &allocation.ID,
	})
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}
