// Package synthesis merges the recommendation texts produced by the
// individual analyst models into one final recommendation document.
// The merged document is what the extractor mines for entry levels.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/tradewatch/fxwatch/internal/service/llm"
)

// ErrNoInput is returned when every analyst produced an empty
// recommendation.
var ErrNoInput = errors.New("no analyst recommendations to synthesize")

const promptHeader = `You are an expert forex trader with over 20 years of experience reviewing recommendations from multiple AI analysts. Review the following recommendations, identify convergence points, and provide your final trading recommendations.
`

const promptFooter = `
Based on your review of all recommendations:
1. Identify the strongest trading opportunities (where multiple analysts agree)
2. Consider upcoming high-impact news events that might cause sudden reversals
3. Provide final trading recommendations with specific:
   - Currency pairs
   - Entry prices (exact levels)
   - Exit/target prices (exact levels)
   - Stop loss levels (exact levels)
   - Position sizing guidance
   - Rationale for each recommendation

Format your recommendations clearly with specific price levels that can be used for automated monitoring and alerts. Ensure all price levels are exact and actionable.`

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\n(.*)\n```$")

type Synthesizer struct {
	llmSvc llm.Service
}

func NewSynthesizer(llmSvc llm.Service) *Synthesizer {
	return &Synthesizer{
		llmSvc: llmSvc,
	}
}

// Synthesize asks the model to merge the per-analyst recommendation
// texts, keyed by analyst name. Empty inputs are dropped; when nothing
// remains, ErrNoInput is returned instead of a pointless model call.
func (s *Synthesizer) Synthesize(ctx context.Context, analysts map[string]string) (string, error) {
	valid := lo.PickBy(analysts, func(name, rec string) bool {
		return strings.TrimSpace(rec) != ""
	})
	if len(valid) == 0 {
		return "", ErrNoInput
	}

	answer, err := s.llmSvc.AskOnce(ctx, llm.Question{Content: buildPrompt(valid)})
	if err != nil {
		return "", fmt.Errorf("synthesis: %w", err)
	}
	return StripFences(answer.Content), nil
}

func buildPrompt(analysts map[string]string) string {
	names := lo.Keys(analysts)
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(promptHeader)
	for _, name := range names {
		fmt.Fprintf(&b, "\n=== %s RECOMMENDATIONS ===\n%s\n", strings.ToUpper(name), analysts[name])
	}
	b.WriteString(promptFooter)
	return b.String()
}

// StripFences unwraps a whole-document markdown code fence, so a model
// answering with fenced JSON still auto-detects as structured input.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
