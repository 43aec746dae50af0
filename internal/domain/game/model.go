package game

import (
	"fmt"
	"strings"
)

// Game is one scraped fixture enriched with derived metrics and,
// once the results feed has been reconciled, the final score.
type Game struct {
	ID        int64
	Country   string
	League    string
	HomeTeam  string
	AwayTeam  string
	MatchDate string // YYYY-MM-DD
	Kickoff   Kickoff

	// Raw percentages as scraped, one per side. Nil means the value was
	// missing or unparseable.
	HomeOver15 *float64
	HomeOver25 *float64
	HomeBTTS   *float64
	AwayOver15 *float64
	AwayOver25 *float64
	AwayBTTS   *float64

	HomeWinPct *float64
	AwayWinPct *float64

	PPGHome      *float64
	PPGAway      *float64
	AvgGoalsHome *float64
	AvgGoalsAway *float64

	GoalsForHome     *float64
	GoalsAgainstHome *float64
	GoalsForAway     *float64
	GoalsAgainstAway *float64

	Matches *int

	// Derived, never scraped.
	AvgOver15 *float64
	AvgOver25 *float64
	AvgBTTS   *float64
	AvgProb   float64

	// Result fields, owned by the reconciler.
	HomeGoals *int
	AwayGoals *int
	Status    string
}

// Identity returns the stable alert key for this fixture. It only depends
// on country, team names and kickoff time, so re-scraping the same day
// yields the same key as long as those fields are unchanged.
func (g Game) Identity() string {
	country := strings.TrimSpace(g.Country)
	if country == "" {
		country = "NP"
	}
	home := strings.TrimSpace(g.HomeTeam)
	if home == "" {
		home = "NT1"
	}
	away := strings.TrimSpace(g.AwayTeam)
	if away == "" {
		away = "NT2"
	}
	return fmt.Sprintf("%s-%s-vs-%s-%s", country, home, away, g.Kickoff.String())
}

// RawPercentages lists the six scraped percentage fields in a fixed order.
func (g Game) RawPercentages() []*float64 {
	return []*float64{
		g.HomeOver15, g.HomeOver25, g.HomeBTTS,
		g.AwayOver15, g.AwayOver25, g.AwayBTTS,
	}
}

// HasAllRawPercentages reports whether every raw percentage is present.
func (g Game) HasAllRawPercentages() bool {
	for _, v := range g.RawPercentages() {
		if v == nil {
			return false
		}
	}
	return true
}

// ResultUpdate carries the mutable result fields applied by the reconciler.
type ResultUpdate struct {
	MatchDate string
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	Status    string
	League    *string
}
