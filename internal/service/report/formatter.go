package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxTextLen caps how much of a free-text report goes into the prompt,
// to stay clear of model token limits.
const maxTextLen = 5000

const (
	maxTrends       = 20
	maxNews         = 20
	maxCorrelations = 15
	maxTitleLen     = 60
)

// FormatDocuments renders source reports into one prompt block, each
// document under its own header. Documents that fail to format are
// skipped.
func FormatDocuments(docs []Document) string {
	var parts []string
	for _, doc := range docs {
		formatted := formatDocument(doc.Content)
		if formatted == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("\n=== %s ===\n%s\n", doc.Name, formatted))
	}
	return strings.Join(parts, "\n")
}

func formatDocument(content string) string {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return formatText(content)
	}
	if out := formatTracker(data); out != "" {
		return out
	}
	return formatText(content)
}

// formatTracker summarizes the tracker feed shape: trending pairs,
// related news and news/currency correlations.
func formatTracker(data map[string]any) string {
	var b []string

	if trends, ok := data["trends"].([]any); ok {
		b = append(b, "TRENDING CURRENCIES:")
		for _, item := range capList(trends, maxTrends) {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			b = append(b, fmt.Sprintf("  %v: %.2f%% (%v)",
				field(rec, "pair"), numField(rec, "change_pct"), field(rec, "direction")))
		}
	}

	if news, ok := data["news"].([]any); ok {
		b = append(b, "\nRELATED NEWS:")
		for _, item := range capList(news, maxNews) {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			b = append(b, fmt.Sprintf("  - %v (Source: %v)", field(rec, "title"), field(rec, "source")))
		}
	}

	if correlations, ok := data["correlations"].([]any); ok {
		b = append(b, "\nNEWS-CURRENCY CORRELATIONS:")
		for _, item := range capList(correlations, maxCorrelations) {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			title := truncateRunes(fmt.Sprintf("%v", field(rec, "news_title")), maxTitleLen)
			b = append(b, fmt.Sprintf("  %v: %s... (Score: %.2f)",
				field(rec, "currency_pair"), title, numField(rec, "correlation_score")))
		}
	}

	return strings.Join(b, "\n")
}

func formatText(content string) string {
	cleaned := strings.TrimSpace(content)
	if truncated := truncateRunes(cleaned, maxTextLen); truncated != cleaned {
		return truncated + "... (truncated)"
	}
	return cleaned
}

// truncateRunes cuts on rune boundaries, a byte slice could split a
// multibyte character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func capList(items []any, max int) []any {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func field(rec map[string]any, key string) any {
	if v, ok := rec[key]; ok && v != nil {
		return v
	}
	return "N/A"
}

func numField(rec map[string]any, key string) float64 {
	if v, ok := rec[key].(float64); ok {
		return v
	}
	return 0
}
