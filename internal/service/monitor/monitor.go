package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/entity"
	"github.com/tradewatch/fxwatch/internal/repo"
	"github.com/tradewatch/fxwatch/internal/service/rates"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
	"github.com/tradewatch/fxwatch/internal/service/tracker"
)

// EntryMonitor walks the tracked set once per tick: opportunities that
// already alerted are skipped, the rest are priced and evaluated, and a
// hit fires the notifier. The ledger is only written after the notifier
// succeeds, so a failed delivery is retried on the next tick
// (at-least-once, never at-most-once).
type EntryMonitor struct {
	set      *tracker.Set
	ledger   Ledger
	rateSvc  rates.Service
	notifier Notifier
	tol      Tolerance

	alertRepo repo.AlertRepo
}

type consoleNotifier struct {
}

func (c consoleNotifier) NotifyEntryHit(ctx context.Context, opp recommendation.Opportunity, currentPrice decimal.Decimal) error {
	fmt.Println("entry hit", opp.Key(), currentPrice.String())
	return nil
}

type Option func(m *EntryMonitor)

func WithNotifier(notifier Notifier) Option {
	return func(m *EntryMonitor) {
		m.notifier = notifier
	}
}

func WithTolerance(tol Tolerance) Option {
	return func(m *EntryMonitor) {
		m.tol = tol
	}
}

// WithAlertRepo archives fired alerts to the relational store,
// best-effort: archive failures never block alerting.
func WithAlertRepo(alertRepo repo.AlertRepo) Option {
	return func(m *EntryMonitor) {
		m.alertRepo = alertRepo
	}
}

func NewEntryMonitor(set *tracker.Set, ledger Ledger, rateSvc rates.Service, opts ...Option) EntryService {
	m := &EntryMonitor{
		set:      set,
		ledger:   ledger,
		rateSvc:  rateSvc,
		notifier: consoleNotifier{},
		tol:      DefaultTolerance,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scan runs one full pass over the tracked set. A failure on one
// opportunity never aborts evaluation of the rest.
func (m *EntryMonitor) Scan(ctx context.Context) error {
	opps := m.set.Snapshot()
	if len(opps) == 0 {
		return nil
	}
	slog.Debug("checking opportunities", "count", len(opps))

	for _, opp := range opps {
		if m.ledger.HasFired(opp) {
			continue
		}

		currentPrice, err := m.rateSvc.Rate(ctx, opp.Pair)
		if err != nil {
			slog.Debug("no rate, skipping", "pair", opp.Pair.String(), "error", err)
			continue
		}

		if !EntryHit(opp, currentPrice, m.tol) {
			continue
		}
		slog.Info("entry point hit",
			"pair", opp.Pair.String(),
			"direction", opp.Direction,
			"entry", opp.Entry,
			"current", currentPrice)

		if err := m.notifier.NotifyEntryHit(ctx, opp, currentPrice); err != nil {
			slog.Error("failed to notify entry hit, will retry next tick",
				"pair", opp.Pair.String(), "error", err)
			continue
		}

		if err := m.ledger.Record(opp, currentPrice); err != nil {
			slog.Error("failed to record alert", "key", opp.Key(), "error", err)
		}

		if m.alertRepo != nil {
			_, err := m.alertRepo.Create(ctx, entity.Alert{
				Key:         opp.Key(),
				BaseSymbol:  opp.Pair.Base,
				QuoteSymbol: opp.Pair.Quote,
				Entry:       opp.Entry.String(),
				Direction:   string(opp.Direction),
				SentPrice:   currentPrice.String(),
				SentAt:      time.Now(),
			})
			if err != nil {
				slog.Error("failed to archive alert", "key", opp.Key(), "error", err)
			}
		}
	}
	return nil
}
