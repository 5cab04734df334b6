package decimalx

import "github.com/shopspring/decimal"

// MustFromString panics on a malformed literal, test helper only.
func MustFromString(s string) decimal.Decimal {
	f, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return f
}
