package monitor

import (
	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

var (
	pipStandard = decimal.New(1, -4) // 0.0001
	pipJPY      = decimal.New(1, -2) // 0.01

	DefaultTolerance = Tolerance{
		Pips:    decimal.NewFromInt(10),
		Percent: decimal.New(1, -1), // 0.1%
	}
)

// Tolerance widens the entry level into a band. The effective absolute
// tolerance is the larger of the pip term and the percent term.
type Tolerance struct {
	Pips    decimal.Decimal
	Percent decimal.Decimal
}

func (t Tolerance) absolute(pair recommendation.Pair, entry decimal.Decimal) decimal.Decimal {
	pip := pipStandard
	if pair.QuotedInJPY() {
		pip = pipJPY
	}
	return decimal.Max(
		t.Pips.Mul(pip),
		entry.Mul(t.Percent).Div(decimal.NewFromInt(100)),
	)
}

// EntryHit reports whether the current price satisfies the entry
// condition within tolerance. A BUY hits when price has come down to
// (or through) the entry level, a SELL when it has come up to it.
// The check is stateless, re-alert suppression lives in the ledger.
func EntryHit(opp recommendation.Opportunity, currentPrice decimal.Decimal, tol Tolerance) bool {
	band := tol.absolute(opp.Pair, opp.Entry)
	if opp.Direction == recommendation.Sell {
		return currentPrice.GreaterThanOrEqual(opp.Entry.Sub(band))
	}
	return currentPrice.LessThanOrEqual(opp.Entry.Add(band))
}
