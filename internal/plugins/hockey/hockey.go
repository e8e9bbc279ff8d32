// Package hockey wires the NHL and college hockey leagues into a
// scoreboard plugin.
package hockey

import "github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/scoreboard"

var leagues = []scoreboard.LeagueSpec{
	{ID: "nhl", SportPath: "hockey/nhl", Priority: 1, LivePriority: true},
	{ID: "ncaa_mens", SportPath: "hockey/mens-college-hockey", Priority: 2},
	{ID: "ncaa_womens", SportPath: "hockey/womens-college-hockey", Priority: 3},
}

// New builds the hockey plugin
func New(cfg scoreboard.Config, deps scoreboard.Deps) *scoreboard.Plugin {
	return scoreboard.New("hockey", leagues, cfg, deps)
}
