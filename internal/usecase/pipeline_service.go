package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/domain/result"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

// FixtureSource produces the raw fixture rows for one day, typically by
// scraping the statistics site.
type FixtureSource interface {
	FetchDay(ctx context.Context, date string) ([]game.Game, error)
}

// SnapshotStore caches one day's computed fixtures so a restarted process
// does not re-scrape the same day.
type SnapshotStore interface {
	Load(ctx context.Context) (date string, games []game.Game, err error)
	Save(ctx context.Context, date string, games []game.Game) error
}

// ResultsFeed returns the external feed's fixtures for one day.
type ResultsFeed interface {
	FixturesByDate(ctx context.Context, date string) ([]result.Row, error)
}

type metricsCalculator interface {
	Calculate(games []game.Game) []game.Game
}

type alertDispatcher interface {
	Dispatch(ctx context.Context, games []game.Game) (DispatchReport, error)
}

type resultReconciler interface {
	Apply(ctx context.Context, rows []result.Row) (ReconcileStats, error)
}

type quotaGate interface {
	Allow(ctx context.Context, kind string, maxPerDay int) (bool, error)
}

// ScrapeReport summarizes one scrape cycle.
type ScrapeReport struct {
	Date         string
	FromSnapshot bool
	Games        int
	Alerts       DispatchReport
	Upserted     int
}

// ResultsReport summarizes one results cycle.
type ResultsReport struct {
	Date     string
	FeedRows int
	Stats    ReconcileStats
}

// PipelineService owns the two periodic cycles: scrape-and-alert, and
// fetch-results-and-reconcile. Each cycle is a single-shot unit; looping
// and error tolerance belong to the caller.
type PipelineService struct {
	source        FixtureSource
	snapshots     SnapshotStore
	games         game.Repository
	metrics       metricsCalculator
	alerts        alertDispatcher
	feed          ResultsFeed
	reconciler    resultReconciler
	quota         quotaGate
	apiDailyLimit int
	logger        *logging.Logger
	now           func() time.Time
}

func NewPipelineService(
	source FixtureSource,
	snapshots SnapshotStore,
	games game.Repository,
	metrics *MetricsService,
	alerts *AlertService,
	feed ResultsFeed,
	reconciler *ReconcileService,
	quota quotaGate,
	apiDailyLimit int,
	logger *logging.Logger,
) *PipelineService {
	return &PipelineService{
		source:        source,
		snapshots:     snapshots,
		games:         games,
		metrics:       metrics,
		alerts:        alerts,
		feed:          feed,
		reconciler:    reconciler,
		quota:         quota,
		apiDailyLimit: apiDailyLimit,
		logger:        logger,
		now:           time.Now,
	}
}

// RunScrapeCycle loads today's fixtures from the snapshot when it is
// fresh, scrapes and computes metrics otherwise, dispatches alerts, and
// upserts the rows. A scrape failure aborts the cycle as a transient
// dependency error; a snapshot failure only costs the cache.
func (s *PipelineService) RunScrapeCycle(ctx context.Context) (ScrapeReport, error) {
	report := ScrapeReport{Date: s.today()}

	games, fromSnapshot := s.loadSnapshot(ctx, report.Date)
	if !fromSnapshot {
		scraped, err := s.source.FetchDay(ctx, report.Date)
		if err != nil {
			return report, fmt.Errorf("%w: fetch fixtures: %v", ErrDependencyUnavailable, err)
		}
		games = s.metrics.Calculate(scraped)

		if err := s.snapshots.Save(ctx, report.Date, games); err != nil {
			s.logger.Warn("save day snapshot failed", "error", err)
		}
	}
	report.FromSnapshot = fromSnapshot
	report.Games = len(games)

	if len(games) == 0 {
		return report, nil
	}

	alerts, err := s.alerts.Dispatch(ctx, games)
	if err != nil {
		return report, fmt.Errorf("dispatch alerts: %w", err)
	}
	report.Alerts = alerts

	upserted, err := s.games.UpsertBatch(ctx, games)
	if err != nil {
		return report, fmt.Errorf("upsert games: %w", err)
	}
	report.Upserted = upserted

	return report, nil
}

// RunResultsCycle spends one unit of the daily feed budget, fetches the
// day's fixtures from the feed and reconciles them. When the budget is
// spent it returns ErrQuotaExhausted without calling the feed.
func (s *PipelineService) RunResultsCycle(ctx context.Context) (ResultsReport, error) {
	report := ResultsReport{Date: s.today()}

	allowed, err := s.quota.Allow(ctx, "fixtures", s.apiDailyLimit)
	if err != nil {
		return report, fmt.Errorf("check api quota: %w", err)
	}
	if !allowed {
		return report, fmt.Errorf("%w: limit %d/day", ErrQuotaExhausted, s.apiDailyLimit)
	}

	rows, err := s.feed.FixturesByDate(ctx, report.Date)
	if err != nil {
		return report, fmt.Errorf("%w: fetch results: %v", ErrDependencyUnavailable, err)
	}
	report.FeedRows = len(rows)

	stats, err := s.reconciler.Apply(ctx, rows)
	if err != nil {
		return report, fmt.Errorf("reconcile results: %w", err)
	}
	report.Stats = stats

	return report, nil
}

// loadSnapshot treats any load problem as a cache miss.
func (s *PipelineService) loadSnapshot(ctx context.Context, today string) ([]game.Game, bool) {
	date, games, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("load day snapshot failed", "error", err)
		return nil, false
	}
	if date != today || len(games) == 0 {
		return nil, false
	}
	return games, true
}

func (s *PipelineService) today() string {
	return s.now().Format("2006-01-02")
}
