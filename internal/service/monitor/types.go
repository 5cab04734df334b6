package monitor

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

// EntryService 入场监控服务接口
type EntryService interface {
	Scan(ctx context.Context) error
}

// Notifier delivers an entry-hit alert. A nil error means the alert
// was delivered; only then is the opportunity marked as fired.
type Notifier interface {
	NotifyEntryHit(ctx context.Context, opp recommendation.Opportunity, currentPrice decimal.Decimal) error
}

// Ledger records which opportunity identities have already alerted.
type Ledger interface {
	HasFired(opp recommendation.Opportunity) bool
	Record(opp recommendation.Opportunity, sentPrice decimal.Decimal) error
}
