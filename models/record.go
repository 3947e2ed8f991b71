package models

// MatchInfo is the scorebox-level summary of a match report page.
type MatchInfo struct {
	FinalScore string `json:"final_score,omitempty"`
	HomeGoals  int    `json:"home_goals"`
	AwayGoals  int    `json:"away_goals"`
	Referee    string `json:"referee,omitempty"`
	Stadium    string `json:"stadium,omitempty"`
	Attendance string `json:"attendance,omitempty"`
	PageTitle  string `json:"page_title,omitempty"`
}

// TeamStats is one team's metric → value block from a normalized table.
type TeamStats struct {
	Team  string            `json:"team"`
	Stats map[string]string `json:"stats"`
}

// PlayerStats is one player's data-stat → value map. The "player" key
// always holds the player name.
type PlayerStats map[string]string

// Name returns the player name, or "" for a malformed record.
func (p PlayerStats) Name() string { return p["player"] }

// MatchEvent is one row of an events/timeline table (goals, cards,
// substitutions): the raw data-stat map plus the table it came from.
type MatchEvent struct {
	Source string            `json:"source"`
	Data   map[string]string `json:"data"`
}

// MatchStatisticsRecord is the canonical per-match result of the
// fetch → extract → normalize pipeline.
type MatchStatisticsRecord struct {
	Ref            MatchReference `json:"match_reference"`
	Info           MatchInfo      `json:"match_info"`
	TeamSummary    []TeamStats    `json:"team_summary"`
	PassingStats   []TeamStats    `json:"passing_stats"`
	DefensiveStats []TeamStats    `json:"defensive_stats"`
	PlayerStats    []PlayerStats  `json:"player_stats"`
	Events         []MatchEvent   `json:"events,omitempty"`

	// Tables retains every extracted raw table for audit.
	Tables []RawTable `json:"raw_tables,omitempty"`

	// Partial marks a record where some expected blocks fell back to
	// defaults (parse or mapping trouble) but core fields survived.
	Partial bool `json:"partial,omitempty"`
}

// ScrapeResult is the outcome for one URL: exactly one of Record or
// Err is set, never both and never neither.
type ScrapeResult struct {
	URL    string                 `json:"url"`
	Record *MatchStatisticsRecord `json:"record,omitempty"`
	Err    *ScrapeError           `json:"-"`
	Error  *ErrorDetail           `json:"error,omitempty"`
}

// BatchResult accumulates monotonically over one batch run and is
// read-only afterward.
type BatchResult struct {
	Attempted    int            `json:"attempted"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	Results      []ScrapeResult `json:"results"`
	RecentErrors []string       `json:"recent_errors,omitempty"`
}
