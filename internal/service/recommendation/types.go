package recommendation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Pair 货币对, e.g. EUR/USD
type Pair struct {
	Base  string
	Quote string
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

func (p Pair) IsZero() bool {
	return p.Base == "" && p.Quote == ""
}

// QuotedInJPY reports whether either leg is JPY, which switches
// pip size from 0.0001 to 0.01.
func (p Pair) QuotedInJPY() bool {
	return p.Base == "JPY" || p.Quote == "JPY"
}

type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

type Provenance string

const (
	ProvenanceStructured Provenance = "structured"
	ProvenanceText       Provenance = "text"
)

// keyPrecision is the number of fractional digits the entry price is
// rounded to when deriving an opportunity identity.
const keyPrecision = 5

// maxRationaleLen bounds the free-form rationale text carried on an
// opportunity. Longer text is truncated, never rejected.
const maxRationaleLen = 500

// Opportunity 入场机会, extracted from one synthesis payload.
// Pair, Entry and Direction are always set; Exit and StopLoss are zero
// when the source text did not mention them.
type Opportunity struct {
	Pair         Pair
	Entry        decimal.Decimal
	Exit         decimal.Decimal
	StopLoss     decimal.Decimal
	Direction    Direction
	PositionSize string
	Rationale    string
	Provenance   Provenance
}

// Key derives the stable identity used to deduplicate alerts. Two
// opportunities with the same pair, direction and entry (rounded to 5
// fractional digits) are the same tracked setup regardless of rationale
// or sizing hints.
func (o Opportunity) Key() string {
	return fmt.Sprintf("%s_%s_%s", o.Pair, o.Direction, o.Entry.StringFixed(keyPrecision))
}

func truncateRationale(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxRationaleLen {
		return s
	}
	return string(runes[:maxRationaleLen])
}
