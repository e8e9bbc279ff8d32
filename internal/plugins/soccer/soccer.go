// Package soccer wires the major soccer competitions into a scoreboard
// plugin. Additional competitions come in via custom_leagues config.
package soccer

import "github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/scoreboard"

var leagues = []scoreboard.LeagueSpec{
	{ID: "epl", SportPath: "soccer/eng.1", Priority: 1, LivePriority: true},
	{ID: "laliga", SportPath: "soccer/esp.1", Priority: 2},
	{ID: "bundesliga", SportPath: "soccer/ger.1", Priority: 3},
	{ID: "seriea", SportPath: "soccer/ita.1", Priority: 4},
	{ID: "ligue1", SportPath: "soccer/fra.1", Priority: 5},
	{ID: "mls", SportPath: "soccer/usa.1", Priority: 6},
}

// New builds the soccer plugin
func New(cfg scoreboard.Config, deps scoreboard.Deps) *scoreboard.Plugin {
	return scoreboard.New("soccer", leagues, cfg, deps)
}
