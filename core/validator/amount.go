package validator

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount messages.
const (
	MsgAmountInvalid  = "Please enter a valid amount"
	MsgAmountPositive = "Amount must be greater than 0"
	MsgAmountTooLarge = "Amount must not exceed 999999.99"
)

// AmountPlaces is the number of decimal places an amount is rounded to.
const AmountPlaces = 2

// MaxAmount is the largest accepted amount.
var MaxAmount = decimal.RequireFromString("999999.99")

// AmountResult is the outcome of an amount check.
// Value holds the amount rounded half-up to two places and is only meaningful
// when Valid is true. It is advisory: callers keep the text the user typed.
type AmountResult struct {
	Valid   bool
	Value   decimal.Decimal
	Message string
}

// Amount parses s as a decimal number and checks that it lies in (0, MaxAmount].
func Amount(s string) AmountResult {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return AmountResult{Message: MsgAmountInvalid}
	}
	return checkAmount(d)
}

// AmountFloat is Amount for values that are already numeric.
func AmountFloat(f float64) AmountResult {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return AmountResult{Message: MsgAmountInvalid}
	}
	return checkAmount(decimal.NewFromFloat(f))
}

func checkAmount(d decimal.Decimal) AmountResult {
	if !d.IsPositive() {
		return AmountResult{Message: MsgAmountPositive}
	}
	if d.GreaterThan(MaxAmount) {
		return AmountResult{Message: MsgAmountTooLarge}
	}
	// Round rounds half away from zero, which is half-up for positive values.
	return AmountResult{Valid: true, Value: d.Round(AmountPlaces)}
}
