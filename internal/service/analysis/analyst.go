package analysis

import (
	"context"
	"fmt"

	"github.com/tradewatch/fxwatch/internal/service/llm"
)

// Analyst produces one recommendation text from a formatted market
// data summary. Each analyst model gets its own instance.
type Analyst interface {
	Name() string
	Analyze(ctx context.Context, dataSummary string) (string, error)
}

const analystPrompt = `As an expert forex trader with over 20 years of experience, analyze trading opportunities in the following hourly market reports:

%s

Provide your recommendations regarding any trading opportunities currently in the market, with risk-managed entry/exit price levels and position sizing guidance based on current price action. Check whether upcoming high-impact news events today might cause a sudden reversal. State specific currency pairs, entry prices, targets and stop losses.`

type llmAnalyst struct {
	name   string
	llmSvc llm.Service
}

func NewLLMAnalyst(name string, llmSvc llm.Service) Analyst {
	return &llmAnalyst{
		name:   name,
		llmSvc: llmSvc,
	}
}

func (a *llmAnalyst) Name() string {
	return a.name
}

func (a *llmAnalyst) Analyze(ctx context.Context, dataSummary string) (string, error) {
	answer, err := a.llmSvc.AskOnce(ctx, llm.Question{Content: fmt.Sprintf(analystPrompt, dataSummary)})
	if err != nil {
		return "", fmt.Errorf("analyst %s: %w", a.name, err)
	}
	return answer.Content, nil
}
