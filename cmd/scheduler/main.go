package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brunoavln/goalscout/internal/app"
	"github.com/brunoavln/goalscout/internal/config"
	"github.com/brunoavln/goalscout/internal/platform/logging"
	"github.com/brunoavln/goalscout/internal/usecase"
)

func main() {
	once := flag.Bool("once", false, "run one scrape cycle and one results cycle, then exit")
	cycle := flag.String("cycle", "", "run a single cycle (scrape|results), then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = application.Close()
	}()

	switch {
	case *cycle != "":
		if err := runSingleCycle(ctx, application.Pipeline, *cycle, logger); err != nil {
			os.Exit(1)
		}
	case *once:
		runScrapeCycle(ctx, application.Pipeline, logger)
		runResultsCycle(ctx, application.Pipeline, logger)
	default:
		runLoops(ctx, application.Pipeline, cfg, logger)
	}

	logger.Info("scheduler stopped")
}

func runSingleCycle(ctx context.Context, pipeline *usecase.PipelineService, name string, logger *logging.Logger) error {
	switch name {
	case "scrape":
		runScrapeCycle(ctx, pipeline, logger)
		return nil
	case "results":
		runResultsCycle(ctx, pipeline, logger)
		return nil
	default:
		logger.Error("unknown cycle", "cycle", name)
		return fmt.Errorf("unknown cycle %q", name)
	}
}

// runLoops drives both cycles on fixed intervals until the context ends.
// A failed cycle is logged and the loop keeps going; a crash-loop on a
// flaky dependency would cost more than one skipped tick.
func runLoops(ctx context.Context, pipeline *usecase.PipelineService, cfg config.Config, logger *logging.Logger) {
	logger.Info("scheduler starting",
		"scrape_interval", cfg.ScrapeInterval.String(),
		"results_interval", cfg.ResultsInterval.String(),
	)

	scrapeTicker := time.NewTicker(cfg.ScrapeInterval)
	defer scrapeTicker.Stop()
	resultsTicker := time.NewTicker(cfg.ResultsInterval)
	defer resultsTicker.Stop()

	runScrapeCycle(ctx, pipeline, logger)
	runResultsCycle(ctx, pipeline, logger)

	for {
		select {
		case <-ctx.Done():
			return
		case <-scrapeTicker.C:
			runScrapeCycle(ctx, pipeline, logger)
		case <-resultsTicker.C:
			runResultsCycle(ctx, pipeline, logger)
		}
	}
}

func runScrapeCycle(ctx context.Context, pipeline *usecase.PipelineService, logger *logging.Logger) {
	started := time.Now()
	report, err := pipeline.RunScrapeCycle(ctx)
	if err != nil {
		logger.Error("scrape cycle failed", "error", err, "elapsed", time.Since(started).String())
		return
	}
	logger.Info("scrape cycle done",
		"date", report.Date,
		"games", report.Games,
		"from_snapshot", report.FromSnapshot,
		"alerts_sent", report.Alerts.Sent,
		"alerts_failed_sends", report.Alerts.FailedSends,
		"upserted", report.Upserted,
		"elapsed", time.Since(started).String(),
	)
}

func runResultsCycle(ctx context.Context, pipeline *usecase.PipelineService, logger *logging.Logger) {
	started := time.Now()
	report, err := pipeline.RunResultsCycle(ctx)
	if errors.Is(err, usecase.ErrQuotaExhausted) {
		logger.Warn("results cycle skipped", "reason", err.Error())
		return
	}
	if err != nil {
		logger.Error("results cycle failed", "error", err, "elapsed", time.Since(started).String())
		return
	}
	logger.Info("results cycle done",
		"date", report.Date,
		"feed_rows", report.FeedRows,
		"exact", report.Stats.Exact,
		"fuzzy", report.Stats.Fuzzy,
		"fuzzy_reversed", report.Stats.FuzzyReversed,
		"unmatched", report.Stats.Unmatched,
		"skipped", report.Stats.Skipped,
		"elapsed", time.Since(started).String(),
	)
}
