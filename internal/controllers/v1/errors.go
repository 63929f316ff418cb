package v1

import (
	"errors"
	"net/http"

	"github.com/zulkamaula/money-mapper-monitor-v2/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// Book errors
var (
	errReorderIDsIncomplete = errors.New("the reorder request must contain the IDs of all books exactly once")
)

// Allocation errors
var (
	errBookIDParameter = errors.New("the book query parameter must be set")
	errPocketNotInBook = errors.New("there is no pocket with this ID in the book")
)
