// Package f1 combines three data sources into one plugin: ESPN's racing
// scoreboard for race weekends, the Jolpi (Ergast-compatible) API for
// championship standings, and OpenF1 for practice session laps.
package f1

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/cache"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/scoreboard"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/jolpi"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/openf1"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

const (
	// ModeStandings rotates driver then constructor championship pages.
	ModeStandings = "standings"
	// ModeResults pages through the most recent race's classification.
	ModeResults = "results"
	// ModePractice shows fastest laps from the most recent practice session.
	ModePractice = "practice"

	rowsPerPage     = 4
	defaultPageHold = 10 * time.Second
	defaultPollSec  = 600
)

var races = []scoreboard.LeagueSpec{
	{ID: "f1", SportPath: "racing/f1", Priority: 1, LivePriority: true},
}

// Config extends the shared scoreboard config with standings options.
type Config struct {
	scoreboard.Config
	StandingsEnabled bool `json:"standings_enabled"`
	ResultsEnabled   bool `json:"results_enabled"`
	PracticeEnabled  bool `json:"practice_enabled"`
	PageHoldSec      int  `json:"page_hold"`
}

// Deps are the f1 plugin's data sources.
type Deps struct {
	Scoreboard scoreboard.Deps
	Jolpi      *jolpi.Client
	OpenF1     *openf1.Client
	Cache      *cache.Writer
}

// Plugin delegates race weekends to an embedded scoreboard plugin and
// serves the standings and practice modes itself.
type Plugin struct {
	races *scoreboard.Plugin
	cfg   Config
	deps  Deps

	mu          sync.Mutex
	pages       map[string][][]string // mode -> rendered pages
	pageIndex   map[string]int
	pageShownAt map[string]time.Time
	wrapped     map[string]bool

	now func() time.Time
}

var _ contracts.Plugin = (*Plugin)(nil)

// New builds the f1 plugin
func New(cfg Config, deps Deps) *Plugin {
	return &Plugin{
		races:       scoreboard.New("f1", races, cfg.Config, deps.Scoreboard),
		cfg:         cfg,
		deps:        deps,
		pages:       make(map[string][][]string),
		pageIndex:   make(map[string]int),
		pageShownAt: make(map[string]time.Time),
		wrapped:     make(map[string]bool),
		now:         time.Now,
	}
}

func (p *Plugin) ID() string    { return "f1" }
func (p *Plugin) Enabled() bool { return p.races.Enabled() }

func (p *Plugin) DisplayModes() []string {
	modes := p.races.DisplayModes()
	if p.cfg.StandingsEnabled {
		modes = append(modes, ModeStandings)
	}
	if p.cfg.ResultsEnabled {
		modes = append(modes, ModeResults)
	}
	if p.cfg.PracticeEnabled {
		modes = append(modes, ModePractice)
	}
	return modes
}

// PollInterval is how often the poller refreshes the standings,
// results, and practice snapshots.
func (p *Plugin) PollInterval() time.Duration {
	if p.cfg.PollIntervalSec > 0 {
		return time.Duration(p.cfg.PollIntervalSec) * time.Second
	}
	return defaultPollSec * time.Second
}

// Managers exposes the race managers for the background poller.
func (p *Plugin) Managers() []contracts.Manager { return p.races.Managers() }

func (p *Plugin) pageHold() time.Duration {
	if p.cfg.PageHoldSec > 0 {
		return time.Duration(p.cfg.PageHoldSec) * time.Second
	}
	return defaultPageHold
}

// Update refreshes the race managers plus the standings and practice
// snapshots. Snapshot fetch failures fall back to the Redis cache.
func (p *Plugin) Update(ctx context.Context) {
	p.races.Update(ctx)
	if p.cfg.StandingsEnabled {
		p.updateStandings(ctx)
	}
	if p.cfg.ResultsEnabled {
		p.updateResults(ctx)
	}
	if p.cfg.PracticeEnabled {
		p.updatePractice(ctx)
	}
}

func (p *Plugin) updateStandings(ctx context.Context) {
	season := p.now().Year()

	drivers, err := p.deps.Jolpi.DriverStandings(ctx, season)
	if err != nil {
		log.Printf("[f1] driver standings: %v", err)
		if p.deps.Cache == nil || p.deps.Cache.ReadSnapshot(ctx, "f1", "drivers", &drivers) != nil {
			return
		}
	} else if p.deps.Cache != nil {
		if cerr := p.deps.Cache.WriteSnapshot(ctx, "f1", "drivers", drivers); cerr != nil {
			log.Printf("[f1] cache drivers: %v", cerr)
		}
	}

	constructors, err := p.deps.Jolpi.ConstructorStandings(ctx, season)
	if err != nil {
		log.Printf("[f1] constructor standings: %v", err)
		if p.deps.Cache == nil || p.deps.Cache.ReadSnapshot(ctx, "f1", "constructors", &constructors) != nil {
			constructors = nil
		}
	} else if p.deps.Cache != nil {
		if cerr := p.deps.Cache.WriteSnapshot(ctx, "f1", "constructors", constructors); cerr != nil {
			log.Printf("[f1] cache constructors: %v", cerr)
		}
	}

	var lines []string
	for _, d := range drivers {
		lines = append(lines, fmt.Sprintf("%s %s %s", d.Position, d.Driver.Code, d.Points))
	}
	for _, c := range constructors {
		lines = append(lines, fmt.Sprintf("%s %s %s", c.Position, c.Constructor.Name, c.Points))
	}
	p.setPages(ModeStandings, paginate(lines, rowsPerPage))
}

// updateResults renders the latest completed race's classification.
// LastRace carries the previous-season fallback, so the mode keeps
// showing the season finale over the winter break.
func (p *Plugin) updateResults(ctx context.Context) {
	race, err := p.deps.Jolpi.LastRace(ctx, p.now().Year())
	if err != nil {
		log.Printf("[f1] race results: %v", err)
		if p.deps.Cache == nil || p.deps.Cache.ReadSnapshot(ctx, "f1", "results", &race) != nil || race == nil {
			return
		}
	} else if p.deps.Cache != nil {
		if cerr := p.deps.Cache.WriteSnapshot(ctx, "f1", "results", race); cerr != nil {
			log.Printf("[f1] cache results: %v", cerr)
		}
	}

	lines := []string{race.RaceName}
	for _, r := range race.Results {
		lines = append(lines, fmt.Sprintf("%s %s %s", r.Position, r.Driver.Code, r.Points))
	}
	p.setPages(ModeResults, paginate(lines, rowsPerPage))
}

func (p *Plugin) updatePractice(ctx context.Context) {
	year := p.now().Year()
	sessions, err := p.deps.OpenF1.Sessions(ctx, year, "Practice")
	if err != nil || len(sessions) == 0 {
		if err != nil {
			log.Printf("[f1] practice sessions: %v", err)
		}
		return
	}
	latest := sessions[len(sessions)-1]

	laps, err := p.deps.OpenF1.Laps(ctx, latest.SessionKey)
	if err != nil {
		log.Printf("[f1] practice laps: %v", err)
		return
	}
	drivers, err := p.deps.OpenF1.Drivers(ctx, latest.SessionKey)
	if err != nil {
		log.Printf("[f1] practice drivers: %v", err)
		return
	}
	names := make(map[int]string, len(drivers))
	for _, d := range drivers {
		names[d.DriverNumber] = d.NameAcronym
	}

	fastest := openf1.FastestLaps(laps)
	type row struct {
		num  int
		secs float64
	}
	rows := make([]row, 0, len(fastest))
	for num, secs := range fastest {
		rows = append(rows, row{num, secs})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].secs < rows[j].secs })

	lines := []string{latest.SessionName + " " + latest.CountryName}
	for i, r := range rows {
		name := names[r.num]
		if name == "" {
			name = fmt.Sprintf("#%d", r.num)
		}
		lines = append(lines, fmt.Sprintf("%d %s %.3f", i+1, name, r.secs))
	}
	p.setPages(ModePractice, paginate(lines, rowsPerPage))
}

func paginate(lines []string, perPage int) [][]string {
	var pages [][]string
	for len(lines) > 0 {
		n := perPage
		if n > len(lines) {
			n = len(lines)
		}
		pages = append(pages, lines[:n])
		lines = lines[n:]
	}
	return pages
}

func (p *Plugin) setPages(mode string, pages [][]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[mode] = pages
	if p.pageIndex[mode] >= len(pages) {
		p.pageIndex[mode] = 0
	}
}

func (p *Plugin) BeginCycle(displayMode string) {
	switch displayMode {
	case ModeStandings, ModeResults, ModePractice:
		p.mu.Lock()
		p.pageIndex[displayMode] = 0
		p.pageShownAt[displayMode] = time.Time{}
		p.wrapped[displayMode] = false
		p.mu.Unlock()
	default:
		p.races.BeginCycle(displayMode)
	}
}

func (p *Plugin) Display(ctx context.Context, displayMode string, forceClear bool) bool {
	switch displayMode {
	case ModeStandings, ModeResults, ModePractice:
		return p.displayPages(displayMode, forceClear)
	default:
		return p.races.Display(ctx, displayMode, forceClear)
	}
}

// displayPages holds each page for the configured duration, advancing
// until every page has been shown once.
func (p *Plugin) displayPages(mode string, forceClear bool) bool {
	p.mu.Lock()
	pages := p.pages[mode]
	if len(pages) == 0 {
		p.mu.Unlock()
		return false
	}
	now := p.now()
	idx := p.pageIndex[mode]
	shownAt := p.pageShownAt[mode]
	if shownAt.IsZero() {
		p.pageShownAt[mode] = now
	} else if now.Sub(shownAt) >= p.pageHold() {
		idx++
		if idx >= len(pages) {
			idx = 0
			p.wrapped[mode] = true
		}
		p.pageIndex[mode] = idx
		p.pageShownAt[mode] = now
		forceClear = true
	}
	page := pages[idx]
	p.mu.Unlock()

	s := p.deps.Scoreboard.Surface
	if forceClear {
		s.Clear()
	}
	display.DrawLines(s, p.deps.Scoreboard.Text, page, rowsPerPage)
	if err := s.Push(); err != nil {
		log.Printf("[f1] push frame: %v", err)
		return false
	}
	return true
}

func (p *Plugin) IsCycleComplete(displayMode string) bool {
	switch displayMode {
	case ModeStandings, ModeResults, ModePractice:
		p.mu.Lock()
		defer p.mu.Unlock()
		pages := p.pages[displayMode]
		if len(pages) == 0 {
			return true
		}
		if p.wrapped[displayMode] {
			return true
		}
		// A single page completes once it has held the screen.
		if len(pages) == 1 && !p.pageShownAt[displayMode].IsZero() {
			return p.now().Sub(p.pageShownAt[displayMode]) >= p.pageHold()
		}
		return false
	default:
		return p.races.IsCycleComplete(displayMode)
	}
}

func (p *Plugin) Info() map[string]interface{} {
	info := p.races.Info()
	p.mu.Lock()
	info["standings_pages"] = len(p.pages[ModeStandings])
	info["results_pages"] = len(p.pages[ModeResults])
	info["practice_pages"] = len(p.pages[ModePractice])
	p.mu.Unlock()
	return info
}
