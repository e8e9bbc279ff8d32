package rotation

import (
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/registry"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

const defaultGameDuration = 15 * time.Second

// Durations resolves how long a single game holds the screen. Lookup
// order: per league+mode override, per league, per mode, then the
// manager's own duration.
type Durations struct {
	Default       time.Duration
	PerMode       map[contracts.ModeType]time.Duration
	PerLeague     map[string]time.Duration
	PerLeagueMode map[string]time.Duration // key "league/mode"
}

// For resolves the game display duration for a league and mode
func (d Durations) For(leagueID string, mode contracts.ModeType, m contracts.Manager) time.Duration {
	if v, ok := d.PerLeagueMode[leagueID+"/"+string(mode)]; ok && v > 0 {
		return v
	}
	if v, ok := d.PerLeague[leagueID]; ok && v > 0 {
		return v
	}
	if v, ok := d.PerMode[mode]; ok && v > 0 {
		return v
	}
	if m != nil {
		if v := m.GameDisplayDuration(); v > 0 {
			return v
		}
	}
	if d.Default > 0 {
		return d.Default
	}
	return defaultGameDuration
}

// Scheduler owns all rotation state for one plugin: which league gets
// the screen next for each display mode, and how far through a full
// lap the plugin is. The display controller drives it by calling
// BeginCycle, Display, and IsCycleComplete.
type Scheduler struct {
	registry  *registry.Registry
	durations Durations
	favorites map[string][]string // leagueID -> favorite team abbrs

	mu    sync.Mutex
	state map[string]*modeProgress // keyed by display mode
	now   func() time.Time
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithDurations sets the per-game duration overrides
func WithDurations(d Durations) Option {
	return func(s *Scheduler) { s.durations = d }
}

// WithFavorites restricts live-priority filtering to games involving
// the given team abbreviations, per league
func WithFavorites(fav map[string][]string) Option {
	return func(s *Scheduler) { s.favorites = fav }
}

// WithClock overrides the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler over a league registry
func New(reg *registry.Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: reg,
		state:    make(map[string]*modeProgress),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the underlying league registry
func (s *Scheduler) Registry() *registry.Registry {
	return s.registry
}

// EnabledLeagues returns enabled league IDs for a mode type in priority order
func (s *Scheduler) EnabledLeagues(mode contracts.ModeType) []string {
	return s.registry.EnabledLeagues(mode)
}

// managerKey uniquely identifies a manager inside rotation state
func managerKey(m contracts.Manager) string {
	return m.LeagueID() + ":" + string(m.Mode())
}
