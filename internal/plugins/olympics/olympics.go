// Package olympics shows a medal table and event schedule fetched as a
// JSON snapshot from a configurable endpoint.
package olympics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/cache"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

const (
	// ModeMedals pages through the medal table.
	ModeMedals = "medals"
	// ModeSchedule pages through upcoming events.
	ModeSchedule = "schedule"

	rowsPerPage     = 4
	defaultPageHold = 10 * time.Second
	defaultPollMin  = 30
)

// MedalRow is one country's medal counts.
type MedalRow struct {
	Country string `json:"country"`
	Code    string `json:"code"`
	Gold    int    `json:"gold"`
	Silver  int    `json:"silver"`
	Bronze  int    `json:"bronze"`
}

// ScheduleEvent is one upcoming event.
type ScheduleEvent struct {
	Sport string    `json:"sport"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
}

// Snapshot is the endpoint's full payload, swapped in wholesale.
type Snapshot struct {
	Medals   []MedalRow      `json:"medals"`
	Schedule []ScheduleEvent `json:"schedule"`
	Fetched  time.Time       `json:"fetched"`
}

// Config is the olympics plugin's config section.
type Config struct {
	Enabled         bool   `json:"enabled"`
	SnapshotURL     string `json:"snapshot_url"`
	PageHoldSec     int    `json:"page_hold"`
	PollIntervalMin int    `json:"poll_interval_min"`
}

// Plugin fetches the snapshot on a schedule and pages through its
// tables. The snapshot swap is guarded by a plain mutex; readers always
// see either the old or the new snapshot, never a mix.
type Plugin struct {
	cfg        Config
	httpClient *http.Client
	cache      *cache.Writer
	surface    contracts.Surface
	text       *display.TextRenderer

	mu          sync.Mutex
	snap        Snapshot
	pageIndex   map[string]int
	pageShownAt map[string]time.Time
	wrapped     map[string]bool

	now func() time.Time
}

var _ contracts.Plugin = (*Plugin)(nil)

// New builds the olympics plugin
func New(cfg Config, cacheWriter *cache.Writer, surface contracts.Surface, text *display.TextRenderer) *Plugin {
	if cfg.PageHoldSec <= 0 {
		cfg.PageHoldSec = int(defaultPageHold / time.Second)
	}
	if cfg.PollIntervalMin <= 0 {
		cfg.PollIntervalMin = defaultPollMin
	}
	return &Plugin{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		cache:       cacheWriter,
		surface:     surface,
		text:        text,
		pageIndex:   make(map[string]int),
		pageShownAt: make(map[string]time.Time),
		wrapped:     make(map[string]bool),
		now:         time.Now,
	}
}

func (p *Plugin) ID() string             { return "olympics" }
func (p *Plugin) Enabled() bool          { return p.cfg.Enabled }
func (p *Plugin) DisplayModes() []string { return []string{ModeMedals, ModeSchedule} }

// PollInterval is how often the poller should call Update.
func (p *Plugin) PollInterval() time.Duration {
	return time.Duration(p.cfg.PollIntervalMin) * time.Minute
}

// Update fetches a fresh snapshot and swaps it in. A failed fetch falls
// back to the Redis cache and then keeps the current snapshot.
func (p *Plugin) Update(ctx context.Context) {
	snap, err := p.fetchSnapshot(ctx)
	if err != nil {
		log.Printf("[olympics] fetch snapshot: %v", err)
		if p.cache != nil {
			var cached Snapshot
			if p.cache.ReadSnapshot(ctx, "olympics", "snapshot", &cached) == nil {
				p.swap(cached)
			}
		}
		return
	}
	snap.Fetched = p.now()
	p.swap(snap)

	if p.cache != nil {
		if err := p.cache.WriteSnapshot(ctx, "olympics", "snapshot", snap); err != nil {
			log.Printf("[olympics] cache snapshot: %v", err)
		}
	}
}

func (p *Plugin) fetchSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if p.cfg.SnapshotURL == "" {
		return snap, fmt.Errorf("no snapshot URL configured")
	}
	req, err := http.NewRequestWithContext(ctx, "GET", p.cfg.SnapshotURL, nil)
	if err != nil {
		return snap, fmt.Errorf("creating request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return snap, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return snap, fmt.Errorf("snapshot endpoint: status=%d, body=%s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

func (p *Plugin) swap(snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = snap
}

// pages renders a mode's snapshot rows into display pages.
func (p *Plugin) pages(mode string) [][]string {
	var lines []string
	switch mode {
	case ModeMedals:
		for i, m := range p.snap.Medals {
			lines = append(lines, fmt.Sprintf("%d %s %d-%d-%d", i+1, m.Code, m.Gold, m.Silver, m.Bronze))
		}
	case ModeSchedule:
		for _, ev := range p.snap.Schedule {
			lines = append(lines, fmt.Sprintf("%s %s %s", ev.Start.Local().Format("Mon 15:04"), ev.Sport, ev.Name))
		}
	}
	var pages [][]string
	for len(lines) > 0 {
		n := rowsPerPage
		if n > len(lines) {
			n = len(lines)
		}
		pages = append(pages, lines[:n])
		lines = lines[n:]
	}
	return pages
}

func (p *Plugin) BeginCycle(displayMode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageIndex[displayMode] = 0
	p.pageShownAt[displayMode] = time.Time{}
	p.wrapped[displayMode] = false
}

// Display holds each page for the configured duration, advancing until
// every page has been shown once.
func (p *Plugin) Display(ctx context.Context, displayMode string, forceClear bool) bool {
	if !p.cfg.Enabled {
		return false
	}

	p.mu.Lock()
	pages := p.pages(displayMode)
	if len(pages) == 0 {
		p.mu.Unlock()
		return false
	}
	now := p.now()
	hold := time.Duration(p.cfg.PageHoldSec) * time.Second
	idx := p.pageIndex[displayMode]
	if idx >= len(pages) {
		idx = 0
	}
	shownAt := p.pageShownAt[displayMode]
	if shownAt.IsZero() {
		p.pageShownAt[displayMode] = now
	} else if now.Sub(shownAt) >= hold {
		idx++
		if idx >= len(pages) {
			idx = 0
			p.wrapped[displayMode] = true
		}
		p.pageShownAt[displayMode] = now
		forceClear = true
	}
	p.pageIndex[displayMode] = idx
	page := pages[idx]
	p.mu.Unlock()

	if forceClear {
		p.surface.Clear()
	}
	display.DrawLines(p.surface, p.text, page, rowsPerPage)
	if err := p.surface.Push(); err != nil {
		log.Printf("[olympics] push frame: %v", err)
		return false
	}
	return true
}

func (p *Plugin) IsCycleComplete(displayMode string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pages := p.pages(displayMode)
	if len(pages) == 0 {
		return true
	}
	if p.wrapped[displayMode] {
		return true
	}
	if len(pages) == 1 && !p.pageShownAt[displayMode].IsZero() {
		return p.now().Sub(p.pageShownAt[displayMode]) >= time.Duration(p.cfg.PageHoldSec)*time.Second
	}
	return false
}

func (p *Plugin) Info() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return map[string]interface{}{
		"plugin":   p.ID(),
		"enabled":  p.cfg.Enabled,
		"medals":   len(p.snap.Medals),
		"schedule": len(p.snap.Schedule),
		"fetched":  p.snap.Fetched,
	}
}
