package entity

import "github.com/shopspring/decimal"

func init() {
	// amounts are exchanged as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// MaxAmount is the largest value a NUMERIC(14,2) column holds.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// ValidAmount reports whether d is positive, has at most two decimal places
// and fits the money columns.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(2)) && d.LessThanOrEqual(MaxAmount)
}
