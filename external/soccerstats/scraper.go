package soccerstats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/brunoavln/goalscout/internal/domain/game"
	"github.com/brunoavln/goalscout/internal/platform/logging"
)

const (
	defaultBaseURL   = "https://www.soccerstats.com"
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/50.0.2661.75 Safari/537.36"

	// The day's fixtures live on two listing pages of the same matchday:
	// listing 1 carries the goals block, listing 2 the BTTS/win block.
	listingGoalsPath = "/matches.asp?matchday=1&listing=1"
	listingBTTSPath  = "/matches.asp?matchday=1&listing=2"
)

type ScraperConfig struct {
	HTTPClient    *http.Client
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	KickoffOffset time.Duration
	Logger        *logging.Logger
}

// Scraper extracts the day's fixtures from the statistics site. Both
// listing pages render the same fixtures in the same order, so their rows
// are joined by position, the way the site itself presents them side by
// side.
type Scraper struct {
	httpClient    *http.Client
	baseURL       string
	userAgent     string
	kickoffOffset time.Duration
	logger        *logging.Logger
}

func NewScraper(cfg ScraperConfig) *Scraper {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Scraper{
		httpClient:    httpClient,
		baseURL:       baseURL,
		userAgent:     userAgent,
		kickoffOffset: cfg.KickoffOffset,
		logger:        logger,
	}
}

// FetchDay scrapes both listing pages and returns the raw fixture rows
// for the given date. Rows missing a team name, country or parseable
// kickoff are dropped.
func (s *Scraper) FetchDay(ctx context.Context, date string) ([]game.Game, error) {
	goalsDoc, err := s.fetchDocument(ctx, listingGoalsPath)
	if err != nil {
		return nil, fmt.Errorf("fetch goals listing: %w", err)
	}
	bttsDoc, err := s.fetchDocument(ctx, listingBTTSPath)
	if err != nil {
		return nil, fmt.Errorf("fetch btts listing: %w", err)
	}

	goalsRows, goalsIndex, err := listingRows(goalsDoc, "country", "ppg", "tg", "gf", "ga", "1.5+", "2.5+")
	if err != nil {
		return nil, fmt.Errorf("goals listing: %w", err)
	}
	bttsRows, bttsIndex, err := listingRows(bttsDoc, "bts", "w%", "gp")
	if err != nil {
		return nil, fmt.Errorf("btts listing: %w", err)
	}

	if len(goalsRows) != len(bttsRows) {
		s.logger.Warn("listing pages disagree on row count",
			"goals_rows", len(goalsRows),
			"btts_rows", len(bttsRows),
		)
	}

	n := min(len(goalsRows), len(bttsRows))
	games := make([]game.Game, 0, n)
	skipped := 0
	for i := 0; i < n; i++ {
		g, ok := s.buildGame(date, goalsRows[i], goalsIndex, bttsRows[i], bttsIndex)
		if !ok {
			skipped++
			continue
		}
		games = append(games, g)
	}

	s.logger.Info("scraped day fixtures",
		"date", date,
		"games", len(games),
		"skipped", skipped,
	)
	return games, nil
}

// buildGame joins one positional row pair into a fixture. The goals
// listing contributes country, teams, kickoff and the per-side goals
// block; the BTTS listing contributes BTTS, win percentage and the
// analyzed-match count.
func (s *Scraper) buildGame(date string, goalsCells []string, goalsIndex columnIndex, bttsCells []string, bttsIndex columnIndex) (game.Game, bool) {
	g := game.Game{MatchDate: date}

	g.Country = labeledCell(goalsCells, goalsIndex, "country", 0)
	g.HomeTeam = unlabeledCell(goalsCells, goalsIndex, 0)
	g.AwayTeam = unlabeledCell(goalsCells, goalsIndex, 2)
	if g.Country == "" || g.HomeTeam == "" || g.AwayTeam == "" {
		return game.Game{}, false
	}

	kickoff, err := game.ParseKickoff(unlabeledCell(goalsCells, goalsIndex, 1), s.kickoffOffset)
	if err != nil {
		return game.Game{}, false
	}
	g.Kickoff = kickoff

	g.HomeOver15 = parsePercent(labeledCell(goalsCells, goalsIndex, "1.5+", 0))
	g.AwayOver15 = parsePercent(labeledCell(goalsCells, goalsIndex, "1.5+", 1))
	g.HomeOver25 = parsePercent(labeledCell(goalsCells, goalsIndex, "2.5+", 0))
	g.AwayOver25 = parsePercent(labeledCell(goalsCells, goalsIndex, "2.5+", 1))

	g.GoalsAgainstHome = parseFloat(labeledCell(goalsCells, goalsIndex, "ga", 0))
	g.GoalsAgainstAway = parseFloat(labeledCell(goalsCells, goalsIndex, "ga", 1))
	g.GoalsForHome = parseFloat(labeledCell(goalsCells, goalsIndex, "gf", 0))
	g.GoalsForAway = parseFloat(labeledCell(goalsCells, goalsIndex, "gf", 1))
	g.AvgGoalsHome = parseFloat(labeledCell(goalsCells, goalsIndex, "tg", 0))
	g.AvgGoalsAway = parseFloat(labeledCell(goalsCells, goalsIndex, "tg", 1))
	g.PPGHome = parseFloat(labeledCell(goalsCells, goalsIndex, "ppg", 0))
	g.PPGAway = parseFloat(labeledCell(goalsCells, goalsIndex, "ppg", 1))

	g.HomeBTTS = parsePercent(labeledCell(bttsCells, bttsIndex, "bts", 0))
	g.AwayBTTS = parsePercent(labeledCell(bttsCells, bttsIndex, "bts", 1))
	g.HomeWinPct = parsePercent(labeledCell(bttsCells, bttsIndex, "w%", 0))
	g.AwayWinPct = parsePercent(labeledCell(bttsCells, bttsIndex, "w%", 1))
	g.Matches = parseInt(labeledCell(bttsCells, bttsIndex, "gp", 0))

	return g, true
}

func labeledCell(cells []string, index columnIndex, label string, occurrence int) string {
	pos, ok := index.at(label, occurrence)
	if !ok {
		return ""
	}
	return cellAt(cells, pos)
}

// unlabeledCell reads the nth column whose header is empty. On the goals
// listing those are, in order, home team, kickoff and away team.
func unlabeledCell(cells []string, index columnIndex, occurrence int) string {
	pos, ok := index.at("", occurrence)
	if !ok {
		return ""
	}
	return cellAt(cells, pos)
}

func listingRows(doc *goquery.Document, required ...string) ([][]string, columnIndex, error) {
	table, index, err := findStatsTable(doc, required...)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		rows = append(rows, cellTexts(row))
	})
	return rows, index, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("listing status=%d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}
	return doc, nil
}
