package apifootball

// Wire types for the v3 fixtures endpoint. Only the fields the
// reconciliation path reads are declared.

type fixturesEnvelope struct {
	Errors   any               `json:"errors"`
	Results  int               `json:"results"`
	Response []fixturePayload  `json:"response"`
	Paging   map[string]int    `json:"paging"`
	Params   map[string]string `json:"parameters"`
}

type fixturePayload struct {
	Fixture fixtureInfo  `json:"fixture"`
	League  leagueInfo   `json:"league"`
	Teams   teamsInfo    `json:"teams"`
	Goals   goalsInfo    `json:"goals"`
	Score   scorePayload `json:"score"`
}

type fixtureInfo struct {
	ID     int64         `json:"id"`
	Date   string        `json:"date"` // RFC 3339, provider zone
	Status fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

type leagueInfo struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
}

type teamsInfo struct {
	Home teamInfo `json:"home"`
	Away teamInfo `json:"away"`
}

type teamInfo struct {
	Name string `json:"name"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type scorePayload struct {
	Fulltime  goalsInfo `json:"fulltime"`
	Extratime goalsInfo `json:"extratime"`
}
