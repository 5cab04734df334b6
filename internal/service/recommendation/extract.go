package recommendation

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// fieldAliases lists the accepted JSON field names per logical
// attribute, tried in order. First present, non-empty key wins.
var fieldAliases = map[string][]string{
	"pair":          {"pair", "currency_pair", "symbol"},
	"entry":         {"entry", "entry_price", "entryPrice"},
	"exit":          {"exit", "exit_price", "exitPrice", "target"},
	"stop_loss":     {"stop_loss", "stopLoss", "stop"},
	"direction":     {"direction", "type", "action"},
	"position_size": {"position_size", "positionSize", "size"},
	"rationale":     {"recommendation", "reason", "analysis"},
}

// textPatterns holds the candidate regexes per field for free-form
// prose, tried in priority order, first match wins. Each pattern
// captures a decimal number in group 1.
var textPatterns = map[string][]*regexp.Regexp{
	"entry": {
		regexp.MustCompile(`(?i)entry[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)enter[:\s]+(?:at|@)?\s*([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)buy[:\s]+(?:at|@)?\s*([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)sell[:\s]+(?:at|@)?\s*([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)entry\s+price[:\s]+([0-9]+\.?[0-9]*)`),
	},
	"exit": {
		regexp.MustCompile(`(?i)exit[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)target[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)take[-\s]?profit[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)tp[:\s]+([0-9]+\.?[0-9]*)`),
	},
	"stop_loss": {
		regexp.MustCompile(`(?i)stop[-\s]?loss[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)sl[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)stop[:\s]+([0-9]+\.?[0-9]*)`),
	},
	"position_size": {
		regexp.MustCompile(`(?i)position[-\s]?size[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)size[:\s]+([0-9]+\.?[0-9]*)`),
		regexp.MustCompile(`(?i)risk[:\s]+([0-9]+\.?[0-9]*)%`),
	},
}

var (
	sellWordRe = regexp.MustCompile(`(?i)\b(sell|short|bearish)\b`)
	// a pair-looking token at the start of a line ends the previous
	// pair's section, as does a blank line.
	sectionEndRe = regexp.MustCompile(`(?i)(\n\n|\n[A-Z]{3}[/ ])`)
)

// pairSiteRes matches the first mention of each catalog pair with
// either slash or space spacing.
var pairSiteRes = func() map[Pair]*regexp.Regexp {
	res := make(map[Pair]*regexp.Regexp, len(catalog))
	for _, p := range catalog {
		res[p] = regexp.MustCompile(fmt.Sprintf(`(?i)%s[/ ]%s`, p.Base, p.Quote))
	}
	return res
}()

// Extract turns one synthesis payload into zero or more opportunities.
// A payload that parses as JSON is read in structured mode, anything
// else is scanned as prose. Malformed individual records never abort
// the batch, they are simply dropped.
func Extract(payload string) []Opportunity {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err == nil {
		// a prose payload can start with a valid JSON prefix (a bare
		// number, say). Structured mode only applies when the whole
		// payload is one JSON document.
		if _, err := dec.Token(); err == io.EOF {
			return extractStructured(root)
		}
	}
	return extractText(payload)
}

func extractStructured(root any) []Opportunity {
	var opps []Opportunity
	appendRecord := func(item any) {
		rec, ok := item.(map[string]any)
		if !ok {
			return
		}
		if opp, ok := opportunityFromRecord(rec); ok {
			opps = append(opps, opp)
		}
	}

	switch v := root.(type) {
	case []any:
		for _, item := range v {
			appendRecord(item)
		}
	case map[string]any:
		if list, ok := v["recommendations"].([]any); ok {
			for _, item := range list {
				appendRecord(item)
			}
		} else if list, ok := v["opportunities"].([]any); ok {
			for _, item := range list {
				appendRecord(item)
			}
		} else {
			appendRecord(v)
		}
	}
	return opps
}

func opportunityFromRecord(rec map[string]any) (Opportunity, bool) {
	pairRaw, ok := stringField(rec, "pair")
	if !ok {
		return Opportunity{}, false
	}
	pair, ok := Normalize(pairRaw)
	if !ok {
		return Opportunity{}, false
	}
	entry, ok := decimalField(rec, "entry")
	if !ok || !entry.IsPositive() {
		return Opportunity{}, false
	}

	opp := Opportunity{
		Pair:       pair,
		Entry:      entry,
		Direction:  Buy,
		Provenance: ProvenanceStructured,
	}
	if exit, ok := decimalField(rec, "exit"); ok {
		opp.Exit = exit
	}
	if sl, ok := decimalField(rec, "stop_loss"); ok {
		opp.StopLoss = sl
	}
	if dir, ok := stringField(rec, "direction"); ok {
		opp.Direction = parseDirection(dir)
	}
	if size, ok := stringField(rec, "position_size"); ok {
		opp.PositionSize = size
	}
	if rationale, ok := stringField(rec, "rationale"); ok {
		opp.Rationale = truncateRationale(rationale)
	}
	return opp, true
}

func parseDirection(raw string) Direction {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "LONG", "GO LONG", "":
		return Buy
	default:
		return Sell
	}
}

func stringField(rec map[string]any, field string) (string, bool) {
	for _, alias := range fieldAliases[field] {
		v, ok := rec[alias]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s, true
			}
		case json.Number:
			return s.String(), true
		}
	}
	return "", false
}

func decimalField(rec map[string]any, field string) (decimal.Decimal, bool) {
	raw, ok := stringField(rec, field)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func extractText(text string) []Opportunity {
	type found struct {
		at  int
		opp Opportunity
	}
	var hits []found

	// each catalog pair contributes at most one section, taken from
	// its first mention up to the next blank line or pair token.
	for _, pair := range catalog {
		loc := pairSiteRes[pair].FindStringIndex(text)
		if loc == nil {
			continue
		}
		section := text[loc[0]:]
		if end := sectionEndRe.FindStringIndex(section); end != nil {
			section = section[:end[0]]
		}
		if opp, ok := opportunityFromSection(pair, section); ok {
			hits = append(hits, found{at: loc[0], opp: opp})
		}
	}

	// output order follows first appearance in the source text
	sort.Slice(hits, func(i, j int) bool { return hits[i].at < hits[j].at })
	opps := make([]Opportunity, 0, len(hits))
	for _, h := range hits {
		opps = append(opps, h.opp)
	}
	return opps
}

func opportunityFromSection(pair Pair, section string) (Opportunity, bool) {
	entry, ok := matchDecimal("entry", section)
	if !ok || !entry.IsPositive() {
		return Opportunity{}, false
	}

	opp := Opportunity{
		Pair:       pair,
		Entry:      entry,
		Direction:  Buy,
		Rationale:  truncateRationale(section),
		Provenance: ProvenanceText,
	}
	if sellWordRe.MatchString(section) {
		opp.Direction = Sell
	}
	if exit, ok := matchDecimal("exit", section); ok {
		opp.Exit = exit
	}
	if sl, ok := matchDecimal("stop_loss", section); ok {
		opp.StopLoss = sl
	}
	if m, ok := matchFirst("position_size", section); ok {
		opp.PositionSize = m
	}
	return opp, true
}

func matchFirst(field, section string) (string, bool) {
	for _, re := range textPatterns[field] {
		if m := re.FindStringSubmatch(section); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func matchDecimal(field, section string) (decimal.Decimal, bool) {
	m, ok := matchFirst(field, section)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
