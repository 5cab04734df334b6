package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tradewatch/fxwatch/internal/repo"
	"github.com/tradewatch/fxwatch/internal/schedule"
	"github.com/tradewatch/fxwatch/internal/service/analysis"
	"github.com/tradewatch/fxwatch/internal/service/ledger"
	"github.com/tradewatch/fxwatch/internal/service/llm/gemini"
	"github.com/tradewatch/fxwatch/internal/service/monitor"
	"github.com/tradewatch/fxwatch/internal/service/notification"
	"github.com/tradewatch/fxwatch/internal/service/rates"
	"github.com/tradewatch/fxwatch/internal/service/report"
	"github.com/tradewatch/fxwatch/internal/service/synthesis"
	"github.com/tradewatch/fxwatch/internal/service/tracker"
	"github.com/tradewatch/fxwatch/ioc"
)

// rerunGap suppresses repeat analysis runs inside one schedule window.
const rerunGap = 5 * time.Minute

func initViper() {

	// --config=./config/xxx.yaml
	file := pflag.String("config", "./config/config.yaml", "specify config file")
	pflag.Parse()

	viper.SetConfigFile(*file)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}

	viper.SetDefault("monitor.check_interval", "60s")
	viper.SetDefault("monitor.tolerance_pips", 10.0)
	viper.SetDefault("monitor.tolerance_percent", 0.1)
	viper.SetDefault("ledger.path", "data/alerts_history.json")
	viper.SetDefault("ledger.retention_days", 7)
	viper.SetDefault("schedule.analysis_times", "07:00,09:00,12:00,16:00")
	viper.SetDefault("reports.dir", "data/reports")
	viper.SetDefault("reports.pattern", "*")
	viper.SetDefault("rates.base_url", rates.DefaultBaseURL)
	viper.SetDefault("rates.pivot", rates.DefaultPivot)
	viper.SetDefault("rates.cache_ttl", "60s")
}

func main() {
	initViper()
	ioc.InitLogger()

	db := ioc.InitDB()
	if err := repo.InitTables(db); err != nil {
		panic(err)
	}
	recRepo := repo.NewRecommendationRepo(db)
	alertRepo := repo.NewAlertRepo(db)

	geminiCli := ioc.InitGeminiCli()
	llmSvc := gemini.NewService(geminiCli)
	synth := synthesis.NewSynthesizer(llmSvc)
	analysts := []analysis.Analyst{
		analysis.NewLLMAnalyst("gemini", llmSvc),
	}

	source := report.NewDirSource(viper.GetString("reports.dir"), viper.GetString("reports.pattern"))

	var setOpts []tracker.Option
	if viper.GetBool("monitor.keep_stale") {
		setOpts = append(setOpts, tracker.WithKeepStale())
	}
	set := tracker.NewSet(setOpts...)

	led := ledger.Open(viper.GetString("ledger.path"))
	retention := time.Duration(viper.GetInt("ledger.retention_days")) * 24 * time.Hour

	rateSvc := rates.NewFrankfurterService(
		rates.WithBaseURL(viper.GetString("rates.base_url")),
		rates.WithPivot(viper.GetString("rates.pivot")),
		rates.WithTTL(viper.GetDuration("rates.cache_ttl")),
	)

	monitorOpts := []monitor.Option{
		monitor.WithAlertRepo(alertRepo),
		monitor.WithTolerance(monitor.Tolerance{
			Pips:    decimal.NewFromFloat(viper.GetFloat64("monitor.tolerance_pips")),
			Percent: decimal.NewFromFloat(viper.GetFloat64("monitor.tolerance_percent")),
		}),
	}
	if token, user := viper.GetString("pushover.token"), viper.GetString("pushover.user_key"); token != "" && user != "" {
		pushSvc := notification.NewPushoverService(token, user)
		monitorOpts = append(monitorOpts, monitor.WithNotifier(notification.NewEntryHitNotifier(pushSvc)))
	} else {
		slog.Warn("pushover not configured, entry alerts go to stdout only")
	}
	entrySvc := monitor.NewEntryMonitor(set, led, rateSvc, monitorOpts...)
	monitorTask := monitor.NewEntryMonitorTask(entrySvc)

	analysisOpts := []analysis.Option{
		analysis.WithArchive(recRepo),
		analysis.WithAlertHistory(alertRepo),
	}
	if sender := viper.GetString("email.sender"); sender != "" {
		emailSvc := notification.NewSMTPEmailService(
			viper.GetString("email.smtp_host"),
			viper.GetInt("email.smtp_port"),
			sender,
			viper.GetString("email.password"),
			sender,
		)
		recipient := viper.GetString("email.recipient")
		if recipient == "" {
			recipient = sender
		}
		analysisOpts = append(analysisOpts, analysis.WithEmailDigest(emailSvc, recipient))
	}
	analysisTask := analysis.NewTask(source, analysts, synth, set, analysisOpts...)

	sched := schedule.NewDailySchedule(
		schedule.ParseTimes(viper.GetString("schedule.analysis_times")),
		schedule.DefaultMatchWindow,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if next, ok := sched.Next(time.Now()); ok {
		slog.Info("next scheduled analysis", "at", next.Format(time.RFC3339))
	} else {
		slog.Warn("no analysis times configured")
	}

	interval := viper.GetDuration("monitor.check_interval")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastAnalysis time.Time
	for {
		now := time.Now()
		if sched.ShouldRun(now) && now.Sub(lastAnalysis) > rerunGap {
			runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			if err := analysisTask.Run(runCtx); err != nil {
				slog.Error("analysis cycle failed", "error", err)
			}
			cancel()
			lastAnalysis = now

			if err := led.Prune(retention); err != nil {
				slog.Error("ledger prune failed", "error", err)
			}
			if next, ok := sched.Next(time.Now()); ok {
				slog.Info("next scheduled analysis", "at", next.Format(time.RFC3339))
			}
		}

		if err := monitorTask.Run(ctx); err != nil {
			slog.Error("monitor pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return
		case <-ticker.C:
		}
	}
}
