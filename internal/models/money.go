package models

import "github.com/shopspring/decimal"

// FormatMoney renders an amount with exactly two decimals. A missing
// amount renders as "0.00".
func FormatMoney(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

// Amount is a convenience for building optional money values.
func Amount(v float64) *float64 {
	return &v
}
