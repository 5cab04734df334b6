package rates

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

// ErrUnavailable is returned when a rate cannot be resolved right now.
// Lookups are best-effort, callers skip and retry on the next pass.
var ErrUnavailable = errors.New("rate unavailable")

// Service resolves the current market rate for a pair.
type Service interface {
	Rate(ctx context.Context, pair recommendation.Pair) (decimal.Decimal, error)
}
