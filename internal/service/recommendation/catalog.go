package recommendation

import "strings"

// catalog is the fixed set of pairs the extractor recognizes. Pairs
// outside this list are skipped, not rejected.
var catalog = []Pair{
	{"EUR", "USD"}, {"GBP", "USD"}, {"USD", "JPY"}, {"USD", "CHF"},
	{"AUD", "USD"}, {"USD", "CAD"}, {"NZD", "USD"}, {"EUR", "GBP"},
	{"EUR", "JPY"}, {"GBP", "JPY"}, {"AUD", "JPY"}, {"EUR", "AUD"},
	{"EUR", "CAD"}, {"GBP", "AUD"}, {"GBP", "CAD"}, {"AUD", "NZD"},
	{"CAD", "CHF"}, {"EUR", "CHF"}, {"GBP", "CHF"}, {"AUD", "CHF"},
	{"NZD", "CHF"}, {"CAD", "JPY"}, {"CHF", "JPY"}, {"NZD", "JPY"},
}

// Pairs returns the canonical pair list in catalog order.
func Pairs() []Pair {
	out := make([]Pair, len(catalog))
	copy(out, catalog)
	return out
}

// Normalize maps a raw instrument token onto a canonical pair.
// Accepted spellings: "EUR/USD", "eurusd", "EUR_USD", "EUR USD".
// ok is false when no canonical pair matches; callers treat that as
// "skip candidate", never as an error.
func Normalize(raw string) (Pair, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "/")

	// bare 6-letter code, e.g. EURUSD
	if !strings.Contains(s, "/") && len(s) == 6 {
		s = s[:3] + "/" + s[3:]
	}

	for _, p := range catalog {
		if s == p.String() {
			return p, true
		}
	}

	// slash-stripped equality, e.g. "EUR/USD" given as "EURUSD/" variants
	stripped := strings.ReplaceAll(s, "/", "")
	for _, p := range catalog {
		if stripped == p.Base+p.Quote {
			return p, true
		}
	}
	return Pair{}, false
}
