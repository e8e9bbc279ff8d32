package scoreboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/registry"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/rotation"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// LeagueSpec is a sport plugin's built-in league: its ID, ESPN sport
// path, and default rotation order. Config can override everything
// except the path.
type LeagueSpec struct {
	ID           string
	SportPath    string
	Priority     int
	LivePriority bool
}

// LeagueSettings is the per-league section of a plugin's config.
// Pointer fields distinguish "absent" from "explicitly false".
type LeagueSettings struct {
	Enabled          *bool           `json:"enabled"`
	Priority         *int            `json:"priority"`
	LivePriority     *bool           `json:"live_priority"`
	FavoriteTeams    []string        `json:"favorite_teams"`
	DisplayModes     map[string]bool `json:"display_modes"`
	GameDurationSec  int             `json:"game_duration"`
	ModeDurationsSec map[string]int  `json:"mode_durations"`
}

// Config is the shared config shape for every ESPN-backed sport plugin.
type Config struct {
	Enabled         bool                      `json:"enabled"`
	DisplayModes    []string                  `json:"display_modes"`
	GameDurationSec int                       `json:"game_duration"`
	PollIntervalSec int                       `json:"poll_interval"`
	Leagues         map[string]LeagueSettings `json:"leagues"`
	CustomLeagues   []CustomLeague            `json:"custom_leagues"`
}

// CustomLeague adds a league beyond the plugin's built-ins, e.g. an
// extra soccer competition by its ESPN path.
type CustomLeague struct {
	ID        string `json:"id"`
	SportPath string `json:"sport_path"`
	Priority  int    `json:"priority"`
}

// Deps are the shared services a sport plugin draws on. Cache must be
// left nil, not set to a nil *cache.Writer, when Redis is unavailable.
type Deps struct {
	Client  Fetcher
	Cache   GameCache
	Text    *display.TextRenderer
	Surface contracts.Surface

	// SharedGameLock makes all of the plugin's managers serialize list
	// swaps behind one mutex (baseball).
	SharedGameLock bool
}

var allModes = []contracts.ModeType{contracts.ModeLive, contracts.ModeRecent, contracts.ModeUpcoming}

// Plugin is a complete ESPN scoreboard plugin: a league registry, one
// manager per league per mode, and a rotation scheduler over them.
type Plugin struct {
	id       string
	enabled  bool
	modes    []string
	reg      *registry.Registry
	sched    *rotation.Scheduler
	surface  contracts.Surface
	managers []contracts.Manager
}

var _ contracts.Plugin = (*Plugin)(nil)

// New builds a plugin from its built-in league specs and its config
// section.
func New(id string, specs []LeagueSpec, cfg Config, deps Deps) *Plugin {
	for _, cl := range cfg.CustomLeagues {
		specs = append(specs, LeagueSpec{ID: cl.ID, SportPath: cl.SportPath, Priority: cl.Priority})
	}

	var sharedMu *sync.Mutex
	if deps.SharedGameLock {
		sharedMu = &sync.Mutex{}
	}

	reg := registry.New()
	durations := rotation.Durations{
		Default:       time.Duration(cfg.GameDurationSec) * time.Second,
		PerLeague:     make(map[string]time.Duration),
		PerLeagueMode: make(map[string]time.Duration),
	}
	favorites := make(map[string][]string)

	p := &Plugin{
		id:      id,
		enabled: cfg.Enabled,
		surface: deps.Surface,
		reg:     reg,
	}

	for _, spec := range specs {
		settings := cfg.Leagues[spec.ID]

		enabled := true
		if settings.Enabled != nil {
			enabled = *settings.Enabled
		}
		priority := spec.Priority
		if settings.Priority != nil {
			priority = *settings.Priority
		}
		livePriority := spec.LivePriority
		if settings.LivePriority != nil {
			livePriority = *settings.LivePriority
		}
		if len(settings.FavoriteTeams) > 0 {
			favorites[spec.ID] = settings.FavoriteTeams
		}
		if settings.GameDurationSec > 0 {
			durations.PerLeague[spec.ID] = time.Duration(settings.GameDurationSec) * time.Second
		}
		for mode, sec := range settings.ModeDurationsSec {
			if sec > 0 {
				durations.PerLeagueMode[spec.ID+"/"+mode] = time.Duration(sec) * time.Second
			}
		}

		entry := &registry.LeagueEntry{
			ID:           spec.ID,
			Enabled:      enabled,
			Priority:     priority,
			LivePriority: livePriority,
			Managers:     make(map[contracts.ModeType]contracts.Manager),
			ModeFlags:    make(map[contracts.ModeType]bool),
		}
		for _, mode := range allModes {
			m := NewManager(ManagerConfig{
				LeagueID:     spec.ID,
				SportPath:    spec.SportPath,
				Mode:         mode,
				GameDuration: time.Duration(settings.GameDurationSec) * time.Second,
				PollInterval: time.Duration(cfg.PollIntervalSec) * time.Second,
				SharedMu:     sharedMu,
			}, deps.Client, deps.Cache, deps.Text)
			entry.Managers[mode] = m
			p.managers = append(p.managers, m)

			if settings.DisplayModes != nil {
				if v, ok := settings.DisplayModes[string(mode)]; ok {
					entry.ModeFlags[mode] = v
				}
			}
		}
		reg.Register(entry)
	}

	p.sched = rotation.New(reg,
		rotation.WithDurations(durations),
		rotation.WithFavorites(favorites),
	)

	p.modes = cfg.DisplayModes
	if len(p.modes) == 0 {
		p.modes = []string{"live", "recent", "upcoming"}
	}

	return p
}

func (p *Plugin) ID() string             { return p.id }
func (p *Plugin) Enabled() bool          { return p.enabled }
func (p *Plugin) DisplayModes() []string { return p.modes }

// Managers exposes every league manager for the background poller.
func (p *Plugin) Managers() []contracts.Manager { return p.managers }

// Scheduler exposes the rotation scheduler, mainly for tests.
func (p *Plugin) Scheduler() *rotation.Scheduler { return p.sched }

func (p *Plugin) BeginCycle(displayMode string) {
	p.sched.BeginCycle(displayMode)
}

func (p *Plugin) Display(ctx context.Context, displayMode string, forceClear bool) bool {
	if !p.enabled {
		return false
	}
	return p.sched.Display(ctx, displayMode, p.surface, forceClear)
}

func (p *Plugin) IsCycleComplete(displayMode string) bool {
	return p.sched.IsCycleComplete(displayMode)
}

// Update refreshes every manager once, sequentially. The background
// poller handles steady-state refresh; this is for startup warmup.
func (p *Plugin) Update(ctx context.Context) {
	for _, m := range p.managers {
		if err := m.Update(ctx); err != nil {
			log.Printf("[%s] update %s/%s: %v", p.id, m.LeagueID(), m.Mode(), err)
		}
	}
}

func (p *Plugin) Info() map[string]interface{} {
	leagues := make(map[string]interface{})
	for _, id := range p.reg.AllLeagueIDs() {
		entry, err := p.reg.Entry(id)
		if err != nil {
			continue
		}
		counts := make(map[string]int)
		for mode, m := range entry.Managers {
			counts[string(mode)] = len(m.Games())
		}
		leagues[id] = map[string]interface{}{
			"enabled":       entry.Enabled,
			"priority":      entry.Priority,
			"live_priority": entry.LivePriority,
			"games":         counts,
		}
	}
	completed := make(map[string][]string)
	for _, mode := range p.modes {
		if keys := p.sched.CompletedManagers(mode); len(keys) > 0 {
			completed[mode] = keys
		}
	}
	return map[string]interface{}{
		"plugin":        p.id,
		"enabled":       p.enabled,
		"display_modes": p.modes,
		"leagues":       leagues,
		"completed":     completed,
	}
}
