package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors. All of them are checked before any row is written.
var (
	ErrBookNameNotUnique       = errors.New("the book name must be unique for the user")
	ErrPercentageOutOfRange    = errors.New("pocket percentages must be between 0 and 100")
	ErrSourceAmountNotPositive = errors.New("the source amount must be larger than zero")
	ErrSourceAmountNotInteger  = errors.New("the source amount must be a whole number")
	ErrNoPockets               = errors.New("at least one pocket is needed to create an allocation")
	ErrAmountNotPositive       = errors.New("the transaction amount must be larger than zero")
	ErrQuantityNotPositive     = errors.New("the transaction quantity must be larger than zero")
	ErrAveragePriceNotPositive = errors.New("the average price must be larger than zero")
	ErrAssetTypeInvalid        = errors.New("the specified asset type is invalid")
	ErrTransactionTypeInvalid  = errors.New("the specified transaction type is invalid")
	ErrHoldingNotUnique        = errors.New("a holding for this asset, platform and instrument already exists")
	ErrPocketBookImmutable     = errors.New("a pocket cannot be moved to another book")
	ErrTotalInvestmentNegative = errors.New("the total investment of a holding cannot be negative")
)
