package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

// rationaleExcerptLen bounds how much of the rationale goes into a
// push message body.
const rationaleExcerptLen = 200

// EntryHitNotifier renders an entry-hit push message for an
// opportunity. It satisfies the monitor's Notifier contract.
type EntryHitNotifier struct {
	pushSvc PushService
}

func NewEntryHitNotifier(pushSvc PushService) *EntryHitNotifier {
	return &EntryHitNotifier{
		pushSvc: pushSvc,
	}
}

func (n *EntryHitNotifier) NotifyEntryHit(ctx context.Context, opp recommendation.Opportunity, currentPrice decimal.Decimal) error {
	title := fmt.Sprintf("Entry Point Hit: %s %s", opp.Pair, opp.Direction)
	return n.pushSvc.Push(ctx, title, entryHitMessage(opp, currentPrice), PriorityHigh)
}

func entryHitMessage(opp recommendation.Opportunity, currentPrice decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Entry Point Triggered!\n\n", opp.Pair)
	fmt.Fprintf(&b, "Direction: %s\n", opp.Direction)
	fmt.Fprintf(&b, "Entry Price: %s\n", opp.Entry)
	fmt.Fprintf(&b, "Current Price: %s\n", currentPrice.StringFixed(5))
	if !opp.Exit.IsZero() {
		fmt.Fprintf(&b, "Target: %s\n", opp.Exit)
	}
	if !opp.StopLoss.IsZero() {
		fmt.Fprintf(&b, "Stop Loss: %s\n", opp.StopLoss)
	}
	if opp.PositionSize != "" {
		fmt.Fprintf(&b, "Position Size: %s\n", opp.PositionSize)
	}
	if opp.Rationale != "" {
		excerpt := []rune(opp.Rationale)
		if len(excerpt) > rationaleExcerptLen {
			excerpt = excerpt[:rationaleExcerptLen]
		}
		fmt.Fprintf(&b, "\nRecommendation: %s", string(excerpt))
	}
	return strings.TrimSpace(b.String())
}
