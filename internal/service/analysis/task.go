package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tradewatch/fxwatch/internal/entity"
	"github.com/tradewatch/fxwatch/internal/repo"
	"github.com/tradewatch/fxwatch/internal/schedule"
	"github.com/tradewatch/fxwatch/internal/service/notification"
	"github.com/tradewatch/fxwatch/internal/service/recommendation"
	"github.com/tradewatch/fxwatch/internal/service/report"
	"github.com/tradewatch/fxwatch/internal/service/synthesis"
	"github.com/tradewatch/fxwatch/internal/service/tracker"
)

// maxSourceDocs is how many of the newest reports feed one cycle.
const maxSourceDocs = 3

// alertLookback bounds the fired-alerts section of the digest.
const alertLookback = 24 * time.Hour

// Task runs one full analysis cycle: gather the latest market reports,
// let each analyst produce recommendations, synthesize them into one
// final document, extract entry watches from it and swap them into the
// tracked set. Archive and email digest are best-effort extras.
type Task struct {
	source   report.Source
	analysts []Analyst
	synth    *synthesis.Synthesizer
	set      *tracker.Set

	recRepo   repo.RecommendationRepo
	alertRepo repo.AlertRepo
	emailSvc  notification.EmailService
	recipient string
}

type Option func(t *Task)

// WithArchive persists each cycle's extracted opportunities.
func WithArchive(recRepo repo.RecommendationRepo) Option {
	return func(t *Task) {
		t.recRepo = recRepo
	}
}

// WithAlertHistory appends the alerts fired over the last day to the
// email digest.
func WithAlertHistory(alertRepo repo.AlertRepo) Option {
	return func(t *Task) {
		t.alertRepo = alertRepo
	}
}

// WithEmailDigest mails the final synthesis to recipient after each
// successful cycle.
func WithEmailDigest(emailSvc notification.EmailService, recipient string) Option {
	return func(t *Task) {
		t.emailSvc = emailSvc
		t.recipient = recipient
	}
}

func NewTask(source report.Source, analysts []Analyst, synth *synthesis.Synthesizer, set *tracker.Set, opts ...Option) schedule.Task {
	task := &Task{
		source:   source,
		analysts: analysts,
		synth:    synth,
		set:      set,
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

func (t *Task) Run(ctx context.Context) error {
	docs, err := t.source.Latest(ctx, maxSourceDocs)
	if err != nil {
		return fmt.Errorf("fetch source reports: %w", err)
	}
	if len(docs) == 0 {
		slog.Warn("no source reports available, skipping analysis cycle")
		return nil
	}
	summary := report.FormatDocuments(docs)

	recs := make(map[string]string, len(t.analysts))
	for _, analyst := range t.analysts {
		rec, err := analyst.Analyze(ctx, summary)
		if err != nil {
			slog.Error("analyst failed", "analyst", analyst.Name(), "error", err)
			continue
		}
		recs[analyst.Name()] = rec
	}

	final, err := t.synth.Synthesize(ctx, recs)
	if err != nil {
		if errors.Is(err, synthesis.ErrNoInput) {
			slog.Warn("no analyst output this cycle, keeping tracked set unchanged")
			return nil
		}
		return err
	}

	opps := recommendation.Extract(final)
	tracked := t.set.Replace(opps)
	slog.Info("analysis cycle complete", "extracted", len(opps), "tracked", tracked)

	cycleId := time.Now().UTC().Format("20060102T150405Z")
	t.archive(ctx, cycleId, opps)
	t.sendDigest(ctx, cycleId, final)
	return nil
}

func (t *Task) Name() string {
	return "analysis cycle task"
}

func (t *Task) archive(ctx context.Context, cycleId string, opps []recommendation.Opportunity) {
	if t.recRepo == nil || len(opps) == 0 {
		return
	}
	rows := lo.Map(opps, func(opp recommendation.Opportunity, _ int) entity.Recommendation {
		return entity.Recommendation{
			CycleId:      cycleId,
			BaseSymbol:   opp.Pair.Base,
			QuoteSymbol:  opp.Pair.Quote,
			Entry:        opp.Entry.String(),
			Exit:         decimalOrEmpty(opp.Exit),
			StopLoss:     decimalOrEmpty(opp.StopLoss),
			Direction:    string(opp.Direction),
			PositionSize: opp.PositionSize,
			Rationale:    opp.Rationale,
			Provenance:   string(opp.Provenance),
		}
	})
	if err := t.recRepo.CreateBatch(ctx, rows); err != nil {
		slog.Error("failed to archive cycle recommendations", "cycle", cycleId, "error", err)
	}
}

func (t *Task) sendDigest(ctx context.Context, cycleId string, final string) {
	if t.emailSvc == nil {
		return
	}
	body := final
	if section := t.recentAlerts(ctx); section != "" {
		body += "\n\n" + section
	}
	subject := fmt.Sprintf("Forex Trading Recommendations - %s", time.Now().Format("2006-01-02 15:04"))
	if err := t.emailSvc.SendText(ctx, t.recipient, subject, body); err != nil {
		slog.Error("failed to send digest email", "cycle", cycleId, "error", err)
	}
}

func (t *Task) recentAlerts(ctx context.Context) string {
	if t.alertRepo == nil {
		return ""
	}
	alerts, err := t.alertRepo.FindSince(ctx, time.Now().Add(-alertLookback))
	if err != nil {
		slog.Error("failed to load recent alerts for digest", "error", err)
		return ""
	}
	if len(alerts) == 0 {
		return ""
	}
	lines := lo.Map(alerts, func(a entity.Alert, _ int) string {
		return fmt.Sprintf("  %s/%s %s entry %s, sent at %s (price %s)",
			a.BaseSymbol, a.QuoteSymbol, a.Direction, a.Entry,
			a.SentAt.Format("2006-01-02 15:04"), a.SentPrice)
	})
	return "ALERTS FIRED (last 24h):\n" + strings.Join(lines, "\n")
}

func decimalOrEmpty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
