package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/zulkamaula/money-mapper-monitor-v2/internal/controllers/v1"
	"github.com/zulkamaula/money-mapper-monitor-v2/test"
)

// TestTransactionsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestTransactionsOptions() {
	holding := createTestHolding(suite.T(), v1.HoldingEditable{})

	tests := []struct {
		name   string
		id     string // path at the transactions endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Transaction with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Transaction exists", holding.Data.Transaction.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/transactions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetFiltered() {
	book, _ := fiftyThirtyTwenty(suite.T())
	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{
		BookID:       book.Data.ID,
		SourceAmount: decimal.NewFromInt(1000000),
	})

	gold := createTestHolding(suite.T(), v1.HoldingEditable{
		BookID:       book.Data.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.Data.ID,
	})
	_ = createTestHolding(suite.T(), v1.HoldingEditable{
		BookID:         book.Data.ID,
		AssetType:      "etf",
		AssetName:      "ETF",
		InstrumentName: "MSCI World",
		Amount:         decimal.NewFromInt(50000),
	})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 2},
		{"By holding", fmt.Sprintf("holding=%s", gold.Data.Holding.ID), 1},
		{"By allocation", fmt.Sprintf("allocation=%s", allocation.Data.ID), 1},
		{"By type", "type=buy", 2},
		{"By type without match", "type=dividend", 0},
		{"Limit", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetInvalidType() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?type=barter", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsGetSingle() {
	holding := createTestHolding(suite.T(), v1.HoldingEditable{})

	r := test.Request(suite.T(), http.MethodGet, holding.Data.Transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(holding.Data.Transaction.ID, response.Data.ID)
	suite.Assert().Equal(holding.Data.Holding.ID, response.Data.HoldingID)
}

func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	holding := createTestHolding(suite.T(), v1.HoldingEditable{
		Amount: decimal.NewFromInt(100000),
	})

	r := test.Request(suite.T(), http.MethodPatch, holding.Data.Transaction.Links.Self, map[string]any{
		"amount": 70000,
		"note":   "Corrected",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.Amount.Equal(decimal.NewFromInt(70000)), "amount is %s", response.Data.Amount)
	suite.Assert().Equal("Corrected", response.Data.Note)

	// The holding's aggregates follow the edit
	r = test.Request(suite.T(), http.MethodGet, holding.Data.Holding.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var reloaded v1.HoldingResponse
	test.DecodeResponse(suite.T(), &r, &reloaded)
	suite.Assert().True(reloaded.Data.TotalInvestment.Equal(decimal.NewFromInt(70000)), "total investment is %s", reloaded.Data.TotalInvestment)
}

func (suite *TestSuiteStandard) TestTransactionsUpdateInvalid() {
	holding := createTestHolding(suite.T(), v1.HoldingEditable{})

	r := test.Request(suite.T(), http.MethodPatch, holding.Data.Transaction.Links.Self, map[string]any{
		"amount": -1,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransactionsDelete() {
	book := createTestBook(suite.T(), v1.BookEditable{})

	first := createTestHolding(suite.T(), v1.HoldingEditable{
		BookID: book.Data.ID,
		Amount: decimal.NewFromInt(100000),
	})
	second := createTestHolding(suite.T(), v1.HoldingEditable{
		BookID: book.Data.ID,
		Amount: decimal.NewFromInt(50000),
	})

	r := test.Request(suite.T(), http.MethodDelete, second.Data.Transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// Deleting the last transaction deletes the holding with it
	r = test.Request(suite.T(), http.MethodDelete, first.Data.Transaction.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, first.Data.Holding.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
