// Package baseball wires MLB, minor league, and college baseball into a
// scoreboard plugin. Its managers share one game-list lock because
// doubleheaders make lists shift while a cycle is in flight.
package baseball

import "github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/scoreboard"

var leagues = []scoreboard.LeagueSpec{
	{ID: "mlb", SportPath: "baseball/mlb", Priority: 1, LivePriority: true},
	{ID: "milb", SportPath: "baseball/milb", Priority: 2},
	{ID: "ncaa", SportPath: "baseball/college-baseball", Priority: 3},
}

// New builds the baseball plugin
func New(cfg scoreboard.Config, deps scoreboard.Deps) *scoreboard.Plugin {
	deps.SharedGameLock = true
	return scoreboard.New("baseball", leagues, cfg, deps)
}
