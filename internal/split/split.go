// Package split turns a single deposited amount into per-pocket integer
// amounts according to percentage weights.
package split

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoWeights            = errors.New("at least one weight is needed to split an amount")
	ErrAmountNotPositive    = errors.New("the amount to split must be larger than zero")
	ErrAmountNotInteger     = errors.New("the amount to split must be a whole number")
	ErrPercentageOutOfRange = errors.New("percentages must be between 0 and 100")
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Weight is one recipient of a split with its percentage share.
type Weight struct {
	ID         uuid.UUID
	Name       string
	Percentage decimal.Decimal
}

// Share is the amount assigned to one weight.
type Share struct {
	Weight
	Amount decimal.Decimal
}

// Shares splits amount across the weights.
//
// Every weight gets the floor of its exact percentage share. The integer
// remainder is then handed out one unit at a time, starting at the first
// weight in input order, so results are deterministic for identical input.
//
// The percentages do not need to sum to 100. The full amount is
// distributed regardless, which gives surprising (but correct) results
// for sums far from 100.
func Shares(amount decimal.Decimal, weights []Weight) ([]Share, error) {
	if len(weights) == 0 {
		return nil, ErrNoWeights
	}

	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	if !amount.IsInteger() {
		return nil, ErrAmountNotInteger
	}

	shares := make([]Share, 0, len(weights))
	total := decimal.Zero
	for _, weight := range weights {
		if weight.Percentage.IsNegative() || weight.Percentage.GreaterThan(hundred) {
			return nil, ErrPercentageOutOfRange
		}

		floor := amount.Mul(weight.Percentage).Div(hundred).Floor()
		shares = append(shares, Share{Weight: weight, Amount: floor})
		total = total.Add(floor)
	}

	// The floors never sum to more than the amount as long as the
	// percentages stay at or below 100 in total. If they exceed 100, the
	// remainder goes negative and units are taken back in input order
	// instead, so the exact-sum guarantee holds either way.
	remainder := amount.Sub(total)
	for i := 0; remainder.IsPositive(); i = (i + 1) % len(shares) {
		shares[i].Amount = shares[i].Amount.Add(one)
		remainder = remainder.Sub(one)
	}

	for i := 0; remainder.IsNegative(); i = (i + 1) % len(shares) {
		if !shares[i].Amount.IsPositive() {
			continue
		}

		shares[i].Amount = shares[i].Amount.Sub(one)
		remainder = remainder.Add(one)
	}

	return shares, nil
}
