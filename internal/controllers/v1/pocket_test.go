package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/zulkamaula/money-mapper-monitor-v2/internal/controllers/v1"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	"github.com/zulkamaula/money-mapper-monitor-v2/test"
)

// TestPocketsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestPocketsOptions() {
	tests := []struct {
		name   string
		id     string // path at the pockets endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Pocket with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Pocket exists", createTestPocket(suite.T(), v1.PocketEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/pockets", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestPocketsCreate() {
	book := createTestBook(suite.T(), v1.BookEditable{})

	pocket := createTestPocket(suite.T(), v1.PocketEditable{
		BookID:     book.Data.ID,
		Name:       "Needs",
		Percentage: decimal.NewFromInt(50),
	})

	suite.Assert().Equal("Needs", pocket.Data.Name)
	suite.Assert().True(pocket.Data.Percentage.Equal(decimal.NewFromInt(50)))
	suite.Assert().Equal(book.Data.ID, pocket.Data.BookID)
}

func (suite *TestSuiteStandard) TestPocketsCreateInvalid() {
	book := createTestBook(suite.T(), v1.BookEditable{})

	tests := []struct {
		name     string
		editable v1.PocketEditable
		status   int
	}{
		{"Nonexistent book", v1.PocketEditable{BookID: uuid.New(), Name: "Orphan"}, http.StatusNotFound},
		{"Percentage above 100", v1.PocketEditable{BookID: book.Data.ID, Name: "Too much", Percentage: decimal.NewFromInt(101)}, http.StatusBadRequest},
		{"Negative percentage", v1.PocketEditable{BookID: book.Data.ID, Name: "Negative", Percentage: decimal.NewFromInt(-1)}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_ = createTestPocket(t, tt.editable, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestPocketsCreateOtherUserBook() {
	// A book of another user reports as not found
	otherUser := models.User{ID: "someone-else"}
	suite.Require().Nil(models.DB.Create(&otherUser).Error)

	otherBook := models.Book{UserID: otherUser.ID, Name: "Not mine"}
	suite.Require().Nil(models.DB.Create(&otherBook).Error)

	_ = createTestPocket(suite.T(), v1.PocketEditable{BookID: otherBook.ID, Name: "Sneaky"}, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestPocketsGetFiltered() {
	book := createTestBook(suite.T(), v1.BookEditable{})
	otherBook := createTestBook(suite.T(), v1.BookEditable{})

	_ = createTestPocket(suite.T(), v1.PocketEditable{BookID: book.Data.ID, Name: "Needs", OrderIndex: 0})
	_ = createTestPocket(suite.T(), v1.PocketEditable{BookID: book.Data.ID, Name: "Wants", OrderIndex: 1})
	_ = createTestPocket(suite.T(), v1.PocketEditable{BookID: otherBook.Data.ID, Name: "Savings"})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"All", "", 3},
		{"By book", fmt.Sprintf("book=%s", book.Data.ID), 2},
		{"By name", "name=Savings", 1},
		{"Limit", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/pockets?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.PocketListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestPocketsUpdate() {
	pocket := createTestPocket(suite.T(), v1.PocketEditable{Name: "Before", Percentage: decimal.NewFromInt(30)})

	r := test.Request(suite.T(), http.MethodPatch, pocket.Data.Links.Self, map[string]any{
		"name":       "After",
		"percentage": 40,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.PocketResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	suite.Assert().Equal("After", updated.Data.Name)
	suite.Assert().True(updated.Data.Percentage.Equal(decimal.NewFromInt(40)), "percentage is %s", updated.Data.Percentage)
}

func (suite *TestSuiteStandard) TestPocketsUpdateBookImmutable() {
	pocket := createTestPocket(suite.T(), v1.PocketEditable{})
	otherBook := createTestBook(suite.T(), v1.BookEditable{})

	r := test.Request(suite.T(), http.MethodPatch, pocket.Data.Links.Self, map[string]any{
		"bookId": otherBook.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.PocketResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(models.ErrPocketBookImmutable.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestPocketsDelete() {
	pocket := createTestPocket(suite.T(), v1.PocketEditable{})

	r := test.Request(suite.T(), http.MethodDelete, pocket.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, pocket.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
