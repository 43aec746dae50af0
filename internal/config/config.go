package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brunoavln/goalscout/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv      string
	ServiceName string
	LogLevel    logging.Level

	DBURL string

	// Scraper.
	ScrapeBaseURL   string
	ScrapeUserAgent string
	ScrapeTimeout   time.Duration
	// KickoffOffset corrects the listing pages' kickoff times into the
	// operator's zone. Applied exactly once, at ingestion.
	KickoffOffset time.Duration

	// Results feed.
	APIFootballBaseURL               string
	APIFootballKey                   string
	APIFootballTimeout               time.Duration
	APIFootballMaxRetries            int
	APIFootballCircuitEnabled        bool
	APIFootballCircuitFailureCount   int
	APIFootballCircuitOpenTimeout    time.Duration
	APIFootballCircuitHalfOpenMaxReq int
	APIDailyLimit                    int
	Timezone                         *time.Location

	// Alerts.
	TelegramToken          string
	TelegramRecipients     []string
	TelegramCircuitEnabled bool
	AlertPoolSize          int
	AlertPairwiseMin       float64
	AlertHighProbMin       float64
	AlertHighProbMatches   int
	AlertKickoffWindow     time.Duration
	AlertRetentionDays     int

	// Reconciliation.
	FuzzyFallbackEnabled bool

	// Scheduler.
	ScrapeInterval  time.Duration
	ResultsInterval time.Duration

	// File stores.
	DataDir      string
	QuotaFile    string
	AlertsFile   string
	SnapshotFile string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}

	telegramToken := strings.TrimSpace(getEnv("TELEGRAM_TOKEN", ""))
	if telegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	telegramRecipients := splitCSV(getEnv("TELEGRAM_CHAT_IDS", ""))
	if len(telegramRecipients) == 0 {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_IDS is required")
	}

	apiKey := strings.TrimSpace(getEnv("APIFOOTBALL_KEY", ""))
	if apiKey == "" {
		return Config{}, fmt.Errorf("APIFOOTBALL_KEY is required")
	}

	scrapeTimeout, err := getEnvAsDuration("SCRAPE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_TIMEOUT: %w", err)
	}
	kickoffOffset, err := getEnvAsDuration("KICKOFF_OFFSET", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse KICKOFF_OFFSET: %w", err)
	}

	apiTimeout, err := getEnvAsDuration("APIFOOTBALL_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_TIMEOUT: %w", err)
	}
	apiMaxRetries, err := getEnvAsInt("APIFOOTBALL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_MAX_RETRIES: %w", err)
	}
	apiCircuitEnabled, err := getEnvAsBool("APIFOOTBALL_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	apiCircuitFailureCount, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	apiCircuitOpenTimeout, err := getEnvAsDuration("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	apiCircuitHalfOpenMaxReq, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	apiDailyLimit, err := getEnvAsInt("API_DAILY_LIMIT", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse API_DAILY_LIMIT: %w", err)
	}
	if apiDailyLimit <= 0 {
		return Config{}, fmt.Errorf("API_DAILY_LIMIT must be > 0")
	}

	timezone, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TIMEZONE: %w", err)
	}

	telegramCircuitEnabled, err := getEnvAsBool("TELEGRAM_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_ENABLED: %w", err)
	}
	alertPoolSize, err := getEnvAsInt("ALERT_POOL_SIZE", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_POOL_SIZE: %w", err)
	}
	alertPairwiseMin, err := getEnvAsFloat("ALERT_PAIRWISE_MIN", 60)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_PAIRWISE_MIN: %w", err)
	}
	alertHighProbMin, err := getEnvAsFloat("ALERT_HIGH_PROB_MIN", 70)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_HIGH_PROB_MIN: %w", err)
	}
	alertHighProbMatches, err := getEnvAsInt("ALERT_HIGH_PROB_MATCHES", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_HIGH_PROB_MATCHES: %w", err)
	}
	alertKickoffWindow, err := getEnvAsDuration("ALERT_KICKOFF_WINDOW", 30*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_KICKOFF_WINDOW: %w", err)
	}
	alertRetentionDays, err := getEnvAsInt("ALERT_RETENTION_DAYS", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_RETENTION_DAYS: %w", err)
	}
	if alertRetentionDays <= 0 {
		return Config{}, fmt.Errorf("ALERT_RETENTION_DAYS must be > 0")
	}

	fuzzyFallbackEnabled, err := getEnvAsBool("FUZZY_FALLBACK_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse FUZZY_FALLBACK_ENABLED: %w", err)
	}

	scrapeInterval, err := getEnvAsDuration("SCRAPE_INTERVAL", time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_INTERVAL: %w", err)
	}
	resultsInterval, err := getEnvAsDuration("RESULTS_INTERVAL", 2*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESULTS_INTERVAL: %w", err)
	}

	dataDir := strings.TrimSpace(getEnv("DATA_DIR", "data"))

	return Config{
		AppEnv:      appEnv,
		ServiceName: getEnv("SERVICE_NAME", "goalscout"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DBURL: dbURL,

		ScrapeBaseURL:   strings.TrimSpace(getEnv("SCRAPE_BASE_URL", "")),
		ScrapeUserAgent: strings.TrimSpace(getEnv("SCRAPE_USER_AGENT", "")),
		ScrapeTimeout:   scrapeTimeout,
		KickoffOffset:   kickoffOffset,

		APIFootballBaseURL:               strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "")),
		APIFootballKey:                   apiKey,
		APIFootballTimeout:               apiTimeout,
		APIFootballMaxRetries:            apiMaxRetries,
		APIFootballCircuitEnabled:        apiCircuitEnabled,
		APIFootballCircuitFailureCount:   apiCircuitFailureCount,
		APIFootballCircuitOpenTimeout:    apiCircuitOpenTimeout,
		APIFootballCircuitHalfOpenMaxReq: apiCircuitHalfOpenMaxReq,
		APIDailyLimit:                    apiDailyLimit,
		Timezone:                         timezone,

		TelegramToken:          telegramToken,
		TelegramRecipients:     telegramRecipients,
		TelegramCircuitEnabled: telegramCircuitEnabled,
		AlertPoolSize:          alertPoolSize,
		AlertPairwiseMin:       alertPairwiseMin,
		AlertHighProbMin:       alertHighProbMin,
		AlertHighProbMatches:   alertHighProbMatches,
		AlertKickoffWindow:     alertKickoffWindow,
		AlertRetentionDays:     alertRetentionDays,

		FuzzyFallbackEnabled: fuzzyFallbackEnabled,

		ScrapeInterval:  scrapeInterval,
		ResultsInterval: resultsInterval,

		DataDir:      dataDir,
		QuotaFile:    getEnv("QUOTA_FILE", dataDir+"/quota.json"),
		AlertsFile:   getEnv("ALERTS_FILE", dataDir+"/alerts.json"),
		SnapshotFile: getEnv("SNAPSHOT_FILE", dataDir+"/today.json"),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseBool(value)
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
