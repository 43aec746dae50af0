package postgres

import (
	"github.com/brunoavln/goalscout/internal/domain/game"
)

// gameColumnValues lists every writable column of the games table with the
// value the given fixture carries for it, in a fixed order. Key columns
// come first; the caller decides which columns actually reach the
// statement based on the live schema.
func gameColumnValues(g game.Game) ([]string, []any) {
	columns := []string{
		"match_date", "home_team", "away_team",
		"kickoff", "country", "league",
		"home_over_1_5", "home_over_2_5", "home_btts",
		"away_over_1_5", "away_over_2_5", "away_btts",
		"home_win_pct", "away_win_pct",
		"ppg_home", "ppg_away",
		"avg_goals_home", "avg_goals_away",
		"goals_for_home", "goals_against_home",
		"goals_for_away", "goals_against_away",
		"matches_analyzed",
		"avg_over_1_5", "avg_over_2_5", "avg_btts", "avg_prob",
	}
	values := []any{
		g.MatchDate, g.HomeTeam, g.AwayTeam,
		g.Kickoff.String(), g.Country, g.League,
		g.HomeOver15, g.HomeOver25, g.HomeBTTS,
		g.AwayOver15, g.AwayOver25, g.AwayBTTS,
		g.HomeWinPct, g.AwayWinPct,
		g.PPGHome, g.PPGAway,
		g.AvgGoalsHome, g.AvgGoalsAway,
		g.GoalsForHome, g.GoalsAgainstHome,
		g.GoalsForAway, g.GoalsAgainstAway,
		g.Matches,
		g.AvgOver15, g.AvgOver25, g.AvgBTTS, g.AvgProb,
	}
	return columns, values
}

// gameKeyColumns identify a fixture row; they are the conflict target and
// are never part of an upsert's SET list. Result columns belong to the
// reconciler and are never written by the upsert path at all.
var gameKeyColumns = map[string]struct{}{
	"match_date": {},
	"home_team":  {},
	"away_team":  {},
}
