// Package calendar shows upcoming Google Calendar events, soonest
// first, one per screen.
package calendar

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/cache"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/gcal"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// ModeEvents is the plugin's only display mode.
const ModeEvents = "events"

const (
	defaultHold       = 10 * time.Second
	defaultMaxEvents  = 5
	defaultPollMinute = 15
)

// Config is the calendar plugin's config section. The access token is
// provisioned externally; the OAuth flow is not this daemon's job.
type Config struct {
	Enabled         bool     `json:"enabled"`
	CalendarIDs     []string `json:"calendar_ids"`
	MaxEvents       int      `json:"max_events"`
	HoldSec         int      `json:"hold"`
	PollIntervalMin int      `json:"poll_interval_min"`
}

// Plugin merges events across all configured calendars.
type Plugin struct {
	cfg     Config
	client  *gcal.Client
	cache   *cache.Writer
	surface contracts.Surface
	text    *display.TextRenderer

	mu      sync.Mutex
	events  []gcal.Event
	index   int
	shownAt time.Time
	wrapped bool

	now func() time.Time
}

var _ contracts.Plugin = (*Plugin)(nil)

// New builds the calendar plugin
func New(cfg Config, client *gcal.Client, cacheWriter *cache.Writer, surface contracts.Surface, text *display.TextRenderer) *Plugin {
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = defaultMaxEvents
	}
	if cfg.HoldSec <= 0 {
		cfg.HoldSec = int(defaultHold / time.Second)
	}
	if cfg.PollIntervalMin <= 0 {
		cfg.PollIntervalMin = defaultPollMinute
	}
	return &Plugin{
		cfg:     cfg,
		client:  client,
		cache:   cacheWriter,
		surface: surface,
		text:    text,
		now:     time.Now,
	}
}

func (p *Plugin) ID() string             { return "calendar" }
func (p *Plugin) Enabled() bool          { return p.cfg.Enabled }
func (p *Plugin) DisplayModes() []string { return []string{ModeEvents} }

// PollInterval is how often the poller should call Update.
func (p *Plugin) PollInterval() time.Duration {
	return time.Duration(p.cfg.PollIntervalMin) * time.Minute
}

// Update fetches each calendar and merges the results soonest-first.
// Calendars that fail are skipped; the cached snapshot covers a total
// outage.
func (p *Plugin) Update(ctx context.Context) {
	var all []gcal.Event
	for _, id := range p.cfg.CalendarIDs {
		events, err := p.client.UpcomingEvents(ctx, id, p.cfg.MaxEvents)
		if err != nil {
			log.Printf("[calendar] fetch %s: %v", id, err)
			continue
		}
		all = append(all, events...)
	}

	if len(all) == 0 {
		if p.cache != nil && p.cache.ReadSnapshot(ctx, "calendar", "events", &all) == nil {
			log.Printf("[calendar] all calendars failed, serving %d cached events", len(all))
		}
	} else {
		sort.Slice(all, func(i, j int) bool {
			return all[i].StartTime().Before(all[j].StartTime())
		})
		if len(all) > p.cfg.MaxEvents {
			all = all[:p.cfg.MaxEvents]
		}
		if p.cache != nil {
			if err := p.cache.WriteSnapshot(ctx, "calendar", "events", all); err != nil {
				log.Printf("[calendar] cache events: %v", err)
			}
		}
	}
	if len(all) == 0 {
		return
	}

	p.mu.Lock()
	p.events = all
	if p.index >= len(all) {
		p.index = 0
	}
	p.mu.Unlock()
}

func (p *Plugin) BeginCycle(displayMode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
	p.shownAt = time.Time{}
	p.wrapped = false
}

// Display renders the current event, advancing after the hold elapses.
func (p *Plugin) Display(ctx context.Context, displayMode string, forceClear bool) bool {
	if !p.cfg.Enabled || displayMode != ModeEvents {
		return false
	}

	p.mu.Lock()
	if len(p.events) == 0 {
		p.mu.Unlock()
		return false
	}
	now := p.now()
	hold := time.Duration(p.cfg.HoldSec) * time.Second
	if p.shownAt.IsZero() {
		p.shownAt = now
	} else if now.Sub(p.shownAt) >= hold {
		p.index++
		if p.index >= len(p.events) {
			p.index = 0
			p.wrapped = true
		}
		p.shownAt = now
		forceClear = true
	}
	ev := p.events[p.index]
	p.mu.Unlock()

	when := "All day"
	if !ev.AllDay() {
		when = ev.StartTime().Local().Format("Mon 15:04")
	}

	if forceClear {
		p.surface.Clear()
	}
	display.DrawLines(p.surface, p.text, []string{when, ev.Summary}, 2)
	if err := p.surface.Push(); err != nil {
		log.Printf("[calendar] push frame: %v", err)
		return false
	}
	return true
}

func (p *Plugin) IsCycleComplete(displayMode string) bool {
	if displayMode != ModeEvents {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return true
	}
	if p.wrapped {
		return true
	}
	if len(p.events) == 1 && !p.shownAt.IsZero() {
		return p.now().Sub(p.shownAt) >= time.Duration(p.cfg.HoldSec)*time.Second
	}
	return false
}

func (p *Plugin) Info() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return map[string]interface{}{
		"plugin":    p.ID(),
		"enabled":   p.cfg.Enabled,
		"calendars": p.cfg.CalendarIDs,
		"events":    len(p.events),
	}
}
