package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/brunoavln/goalscout/external/apifootball"
	"github.com/brunoavln/goalscout/external/soccerstats"
	"github.com/brunoavln/goalscout/external/telegram"
	"github.com/brunoavln/goalscout/internal/config"
	"github.com/brunoavln/goalscout/internal/domain/quota"
	"github.com/brunoavln/goalscout/internal/domain/teamname"
	"github.com/brunoavln/goalscout/internal/infrastructure/repository/file"
	"github.com/brunoavln/goalscout/internal/infrastructure/repository/postgres"
	"github.com/brunoavln/goalscout/internal/platform/logging"
	"github.com/brunoavln/goalscout/internal/platform/resilience"
	"github.com/brunoavln/goalscout/internal/usecase"
)

// App wires configuration into the runnable pipeline.
type App struct {
	Pipeline *usecase.PipelineService

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("database connected", "db", dbNameFromURL(cfg.DBURL))

	gameRepo := postgres.NewGameRepository(db)

	quotaStore := file.NewQuotaStore(cfg.QuotaFile)
	alertStore := file.NewAlertStore(cfg.AlertsFile, cfg.AlertRetentionDays)
	snapshotStore := file.NewSnapshotStore(cfg.SnapshotFile)

	scraper := soccerstats.NewScraper(soccerstats.ScraperConfig{
		HTTPClient:    &http.Client{Timeout: cfg.ScrapeTimeout},
		BaseURL:       cfg.ScrapeBaseURL,
		UserAgent:     cfg.ScrapeUserAgent,
		KickoffOffset: cfg.KickoffOffset,
		Logger:        logger,
	})

	feed := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Location:   cfg.Timezone,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	notifier, err := telegram.NewNotifier(telegram.NotifierConfig{
		Token:  cfg.TelegramToken,
		Logger: logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: cfg.TelegramCircuitEnabled,
		},
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create notifier: %w", err)
	}

	metrics := usecase.NewMetricsService(logger)
	alerts := usecase.NewAlertService(
		alertStore,
		notifier,
		cfg.TelegramRecipients,
		usecase.AlertThresholds{
			PairwiseMin:     cfg.AlertPairwiseMin,
			HighProbMin:     cfg.AlertHighProbMin,
			HighProbMatches: cfg.AlertHighProbMatches,
			KickoffWindow:   cfg.AlertKickoffWindow,
		},
		cfg.AlertPoolSize,
		logger,
	)
	reconciler := usecase.NewReconcileService(
		gameRepo,
		teamname.NewNormalizer(teamname.DefaultConfig()),
		cfg.FuzzyFallbackEnabled,
		logger,
	)
	pipeline := usecase.NewPipelineService(
		scraper,
		snapshotStore,
		gameRepo,
		metrics,
		alerts,
		feed,
		reconciler,
		quota.NewTracker(quotaStore),
		cfg.APIDailyLimit,
		logger,
	)

	return &App{Pipeline: pipeline, db: db}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
