package models

import "time"

// GameStatus mirrors the ESPN event state field
type GameStatus string

const (
	StatusPre  GameStatus = "pre"
	StatusIn   GameStatus = "in"
	StatusPost GameStatus = "post"
)

// Game is the universal record a manager reports for any league.
// A manager replaces its whole game list on each poll; games are
// never merged incrementally.
type Game struct {
	ID          string                 `json:"id"`
	LeagueID    string                 `json:"league_id"`
	HomeTeam    string                 `json:"home_team"`
	HomeAbbr    string                 `json:"home_abbr"`
	AwayTeam    string                 `json:"away_team"`
	AwayAbbr    string                 `json:"away_abbr"`
	HomeScore   int                    `json:"home_score"`
	AwayScore   int                    `json:"away_score"`
	Status      GameStatus             `json:"status"`
	Period      int                    `json:"period"`
	PeriodLabel string                 `json:"period_label,omitempty"`
	Clock       string                 `json:"clock,omitempty"`
	StartTime   time.Time              `json:"start_time"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Extra       map[string]interface{} `json:"extra,omitempty"` // league-specific fields
}

// IsLive reports whether the game is currently in progress
func (g Game) IsLive() bool {
	return g.Status == StatusIn
}

// IsFinal reports whether the game has ended
func (g Game) IsFinal() bool {
	return g.Status == StatusPost
}

// Involves reports whether either side matches one of the given team abbreviations
func (g Game) Involves(abbrs []string) bool {
	for _, a := range abbrs {
		if g.HomeAbbr == a || g.AwayAbbr == a {
			return true
		}
	}
	return false
}
