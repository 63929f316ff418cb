package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	v1 "github.com/zulkamaula/money-mapper-monitor-v2/internal/controllers/v1"
	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
	"github.com/zulkamaula/money-mapper-monitor-v2/test"
)

func (suite *TestSuiteStandard) TestCleanup() {
	book, _ := fiftyThirtyTwenty(suite.T())
	allocation := createTestAllocation(suite.T(), v1.AllocationEditable{
		BookID:       book.Data.ID,
		SourceAmount: decimal.NewFromInt(1000000),
	})
	_ = createTestHolding(suite.T(), v1.HoldingEditable{
		BookID:       book.Data.ID,
		Amount:       decimal.NewFromInt(200000),
		AllocationID: &allocation.Data.ID,
	})

	// Data of other users is never touched
	otherUser := models.User{ID: "cleanup-other"}
	suite.Require().Nil(models.DB.Create(&otherUser).Error)
	otherBook := models.Book{UserID: otherUser.ID, Name: "Untouched"}
	suite.Require().Nil(models.DB.Create(&otherBook).Error)

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify that the deletion happened
	tests := []string{
		"http://example.com/v1/books",
		"http://example.com/v1/pockets",
		fmt.Sprintf("http://example.com/v1/allocations?book=%s", book.Data.ID),
		fmt.Sprintf("http://example.com/v1/holdings?book=%s", book.Data.ID),
		"http://example.com/v1/transactions",
	}

	for _, path := range tests {
		suite.T().Run(path, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, path, "")

			// The allocation and holding listings need the book,
			// which is gone now
			if recorder.Code == http.StatusNotFound {
				return
			}

			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "Not all %s were deleted", path)
		})
	}

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Book{}).Where("user_id = ?", otherUser.ID).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestCleanupNotConfirmed() {
	tests := []struct {
		name string
		path string
	}{
		{"No confirmation", "http://example.com/v1"},
		{"Wrong confirmation", "http://example.com/v1?confirm=on-second-thought-no"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, tt.path, "")
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
