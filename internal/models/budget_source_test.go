package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
)

// fiftyThirtyTwenty sets up the canonical 50/30/20 book with a deposit
// of 1000000 and returns the book with its allocation.
func (suite *TestSuiteStandard) fiftyThirtyTwenty() (models.Book, models.Allocation) {
	book := suite.createTestBook(models.Book{})

	needs := suite.createTestPocket(models.Pocket{BookID: book.ID, Name: "Needs", Percentage: decimal.NewFromInt(50)})
	wants := suite.createTestPocket(models.Pocket{BookID: book.ID, Name: "Wants", Percentage: decimal.NewFromInt(30)})
	savings := suite.createTestPocket(models.Pocket{BookID: book.ID, Name: "Savings", Percentage: decimal.NewFromInt(20)})

	allocation := suite.createTestAllocation(book.UserID, models.AllocationCreate{
		BookID:       book.ID,
		SourceAmount: decimal.NewFromInt(1000000),
		Weights:      weightsFor(needs, wants, savings),
	})

	return book, allocation
}

func (suite *TestSuiteStandard) TestBudgetSources() {
	book, allocation := suite.fiftyThirtyTwenty()

	// A 200000 gold purchase funded from the deposit traces back to
	// the pockets as 100000 / 60000 / 40000
	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().Nil(err)

	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(sources, 3)

	suite.Assert().Equal("Needs", sources[0].PocketName)
	suite.Assert().True(sources[0].Amount.Equal(decimal.NewFromInt(100000)), "amount is %s", sources[0].Amount)
	suite.Assert().True(sources[0].Percentage.Equal(decimal.NewFromInt(50)), "percentage is %s", sources[0].Percentage)

	suite.Assert().Equal("Wants", sources[1].PocketName)
	suite.Assert().True(sources[1].Amount.Equal(decimal.NewFromInt(60000)), "amount is %s", sources[1].Amount)

	suite.Assert().Equal("Savings", sources[2].PocketName)
	suite.Assert().True(sources[2].Amount.Equal(decimal.NewFromInt(40000)), "amount is %s", sources[2].Amount)
}

func (suite *TestSuiteStandard) TestBudgetSourcesAccumulate() {
	book, allocation := suite.fiftyThirtyTwenty()

	first := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})
	_ = suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(100000),
		AllocationID: &allocation.ID,
	})

	holding, err := models.HoldingForUser(models.DB, first.HoldingID, book.UserID)
	suite.Require().Nil(err)

	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(sources, 3)

	suite.Assert().Equal("Needs", sources[0].PocketName)
	suite.Assert().True(sources[0].Amount.Equal(decimal.NewFromInt(150000)), "amount is %s", sources[0].Amount)
	suite.Assert().Equal(int64(2), sources[0].TransactionCount)
}

func (suite *TestSuiteStandard) TestBudgetSourcesPrecomputedAgree() {
	book, allocation := suite.fiftyThirtyTwenty()

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})
	_ = suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(300000),
		AllocationID: &allocation.ID,
	})

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().Nil(err)

	// The accumulated rows are a cache over the log, both reads have
	// to agree on the contributions
	walked, err := holding.BudgetSources(models.DB)
	suite.Require().Nil(err)

	cached, err := holding.AccumulatedBudgetSources(models.DB)
	suite.Require().Nil(err)
	suite.Require().Len(cached, len(walked))

	for i := range walked {
		suite.Assert().Equal(walked[i].PocketName, cached[i].PocketName)
		suite.Assert().True(walked[i].Amount.Equal(cached[i].AccumulatedAmount),
			"%s: walked %s, cached %s", walked[i].PocketName, walked[i].Amount, cached[i].AccumulatedAmount)
		suite.Assert().Equal(walked[i].TransactionCount, cached[i].TransactionCount)
	}
}

func (suite *TestSuiteStandard) TestBudgetSourcesRebuildOnEdit() {
	book, allocation := suite.fiftyThirtyTwenty()

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})

	_, err := models.UpdateHoldingTransaction(models.DB, book.UserID, transaction.ID, models.HoldingTransactionUpdate{
		Amount: decimalP(100000),
	})
	suite.Require().Nil(err)

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().Nil(err)

	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(sources, 3)
	suite.Assert().True(sources[0].Amount.Equal(decimal.NewFromInt(50000)), "amount is %s", sources[0].Amount)

	cached, err := holding.AccumulatedBudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(cached, 3)
	suite.Assert().True(cached[0].AccumulatedAmount.Equal(decimal.NewFromInt(50000)), "cached amount is %s", cached[0].AccumulatedAmount)
}

func (suite *TestSuiteStandard) TestBudgetSourcesRebuildOnDelete() {
	book, allocation := suite.fiftyThirtyTwenty()

	kept := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})
	deleted := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(100000),
		AllocationID: &allocation.ID,
	})

	err := models.DeleteHoldingTransaction(models.DB, book.UserID, deleted.ID)
	suite.Require().Nil(err)

	holding, err := models.HoldingForUser(models.DB, kept.HoldingID, book.UserID)
	suite.Require().Nil(err)

	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(sources, 3)
	suite.Assert().True(sources[0].Amount.Equal(decimal.NewFromInt(100000)), "amount is %s", sources[0].Amount)
	suite.Assert().Equal(int64(1), sources[0].TransactionCount)
}

func (suite *TestSuiteStandard) TestBudgetSourcesRebuildOnAllocationDelete() {
	book, allocation := suite.fiftyThirtyTwenty()

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().Nil(err)

	err = models.DeleteAllocation(models.DB, book.UserID, allocation.ID)
	suite.Require().Nil(err)

	// With the funding provenance erased, the walk and the precomputed
	// rows both report nothing
	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Len(sources, 0)

	accumulated, err := holding.AccumulatedBudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Len(accumulated, 0)
}

func (suite *TestSuiteStandard) TestBudgetSourcesSurvivePocketChanges() {
	book := suite.createTestBook(models.Book{})
	pocket := suite.createTestPocket(models.Pocket{BookID: book.ID, Name: "Needs", Percentage: decimal.NewFromInt(50)})

	allocation := suite.createTestAllocation(book.UserID, models.AllocationCreate{
		BookID:       book.ID,
		SourceAmount: decimal.NewFromInt(1000000),
		Weights:      weightsFor(pocket),
	})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID:       book.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.ID,
	})

	// The report is built from snapshots, deleting the live pocket
	// does not change history
	err := models.DB.Delete(&pocket).Error
	suite.Require().Nil(err)

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().Nil(err)

	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Require().Len(sources, 1)
	suite.Assert().Equal("Needs", sources[0].PocketName)
	suite.Assert().True(sources[0].Amount.Equal(decimal.NewFromInt(100000)), "amount is %s", sources[0].Amount)
}

func (suite *TestSuiteStandard) TestBudgetSourcesUnlinked() {
	book := suite.createTestBook(models.Book{})

	transaction := suite.createTestHoldingTransaction(book.UserID, models.HoldingTransactionCreate{
		BookID: book.ID,
		Amount: decimal.NewFromInt(200000),
	})

	holding, err := models.HoldingForUser(models.DB, transaction.HoldingID, book.UserID)
	suite.Require().Nil(err)

	// A purchase without a funding link has no provenance to report
	sources, err := holding.BudgetSources(models.DB)
	suite.Assert().Nil(err)
	suite.Assert().Len(sources, 0)
}
