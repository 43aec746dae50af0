package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/brunoavln/goalscout/internal/domain/result"
	"github.com/brunoavln/goalscout/internal/platform/logging"
	"github.com/brunoavln/goalscout/internal/platform/resilience"
	"github.com/brunoavln/goalscout/internal/usecase"
)

const defaultBaseURL = "https://v3.football.api-sports.io"

var errAPIFootballTransient = crerr.New("results feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Location       *time.Location
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches finished fixtures from the results feed. Kickoff times
// arrive in the provider's zone and are converted to the configured
// location before they reach the reconciler.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	location       *time.Location
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	location := cfg.Location
	if location == nil {
		location = time.UTC
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     max(cfg.MaxRetries, 0),
		location:       location,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FixturesByDate returns the feed's fixtures for one day, finished or not.
// The caller filters by status; this keeps one feed call per cycle.
func (c *Client) FixturesByDate(ctx context.Context, date string) ([]result.Row, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", usecase.ErrInvalidInput)
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", map[string]string{"date": date}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures date=%s: %w", date, err)
	}

	rows := make([]result.Row, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		rows = append(rows, c.mapFixture(item))
	}
	return rows, nil
}

func (c *Client) mapFixture(item fixturePayload) result.Row {
	row := result.Row{
		League:    item.League.Name,
		Season:    item.League.Season,
		HomeTeam:  strings.TrimSpace(item.Teams.Home.Name),
		AwayTeam:  strings.TrimSpace(item.Teams.Away.Name),
		HomeGoals: item.Goals.Home,
		AwayGoals: item.Goals.Away,
		Status:    strings.ToUpper(strings.TrimSpace(item.Fixture.Status.Short)),
	}

	if at, err := time.Parse(time.RFC3339, item.Fixture.Date); err == nil {
		local := at.In(c.location)
		row.MatchDate = local.Format("2006-01-02")
		row.Kickoff = local.Format("15:04")
	}

	return row
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "results feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errAPIFootballTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-rapidapi-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errAPIFootballTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d", errAPIFootballTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("feed status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
