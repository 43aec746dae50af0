package result

import "strings"

// Row is one fixture from the external results feed. Team names follow the
// feed's own spelling, which is not guaranteed to match the scraper's.
type Row struct {
	MatchDate string // YYYY-MM-DD
	Kickoff   string // HH:MM, already converted to the local zone
	League    string
	Season    int
	HomeTeam  string
	AwayTeam  string
	HomeGoals *int
	AwayGoals *int
	Status    string
}

// IsFinishedStatus reports whether a feed status code marks a completed
// match. Only finished rows may drive result updates.
func IsFinishedStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "FT", "FINAL", "FULL", "AET", "AP":
		return true
	default:
		return false
	}
}

// HasScore reports whether both goals values are present.
func (r Row) HasScore() bool {
	return r.HomeGoals != nil && r.AwayGoals != nil
}
