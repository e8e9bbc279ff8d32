// Package stocks shows Yahoo Finance RSS headlines per watched symbol,
// rotating one headline at a time.
package stocks

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/cache"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/yahoorss"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// ModeHeadlines is the plugin's only display mode.
const ModeHeadlines = "headlines"

const (
	defaultHold        = 8 * time.Second
	defaultMaxPerFeed  = 3
	defaultPollMinutes = 10
)

// CustomFeed adds a non-symbol RSS source by URL.
type CustomFeed struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Config is the stocks plugin's config section.
type Config struct {
	Enabled         bool         `json:"enabled"`
	Symbols         []string     `json:"symbols"`
	CustomFeeds     []CustomFeed `json:"custom_feeds"`
	HoldSec         int          `json:"hold"`
	MaxPerFeed      int          `json:"max_per_feed"`
	PollIntervalMin int          `json:"poll_interval_min"`
}

// Plugin fetches and rotates headlines across all configured sources.
type Plugin struct {
	cfg     Config
	client  *yahoorss.Client
	cache   *cache.Writer
	surface contracts.Surface
	text    *display.TextRenderer

	mu        sync.Mutex
	headlines []yahoorss.Headline
	index     int
	shownAt   time.Time
	wrapped   bool

	now func() time.Time
}

var _ contracts.Plugin = (*Plugin)(nil)

// New builds the stocks plugin
func New(cfg Config, client *yahoorss.Client, cacheWriter *cache.Writer, surface contracts.Surface, text *display.TextRenderer) *Plugin {
	if cfg.HoldSec <= 0 {
		cfg.HoldSec = int(defaultHold / time.Second)
	}
	if cfg.MaxPerFeed <= 0 {
		cfg.MaxPerFeed = defaultMaxPerFeed
	}
	if cfg.PollIntervalMin <= 0 {
		cfg.PollIntervalMin = defaultPollMinutes
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

func (p *Plugin) ID() string             { return "stocks" }
func (p *Plugin) Enabled() bool          { return p.cfg.Enabled }
func (p *Plugin) DisplayModes() []string { return []string{ModeHeadlines} }

// PollInterval is how often the poller should call Update.
func (p *Plugin) PollInterval() time.Duration {
	return time.Duration(p.cfg.PollIntervalMin) * time.Minute
}

// Update fetches every feed, keeping the newest MaxPerFeed headlines of
// each. A feed that fails is skipped; if everything fails, the cached
// snapshot is used.
func (p *Plugin) Update(ctx context.Context) {
	var all []yahoorss.Headline

	for _, sym := range p.cfg.Symbols {
		hs, err := p.client.SymbolHeadlines(ctx, sym)
		if err != nil {
			log.Printf("[stocks] fetch %s: %v", sym, err)
			continue
		}
		all = append(all, firstN(hs, p.cfg.MaxPerFeed)...)
	}
	for _, feed := range p.cfg.CustomFeeds {
		hs, err := p.client.FeedHeadlines(ctx, feed.Name, feed.URL)
		if err != nil {
			log.Printf("[stocks] fetch %s: %v", feed.Name, err)
			continue
		}
		all = append(all, firstN(hs, p.cfg.MaxPerFeed)...)
	}

	if len(all) == 0 {
		if p.cache != nil && p.cache.ReadSnapshot(ctx, "stocks", "headlines", &all) == nil {
			log.Printf("[stocks] all feeds failed, serving %d cached headlines", len(all))
		}
	} else if p.cache != nil {
		if err := p.cache.WriteSnapshot(ctx, "stocks", "headlines", all); err != nil {
			log.Printf("[stocks] cache headlines: %v", err)
		}
	}
	if len(all) == 0 {
		return
	}

	p.mu.Lock()
	p.headlines = all
	if p.index >= len(all) {
		p.index = 0
	}
	p.mu.Unlock()
}

func firstN(hs []yahoorss.Headline, n int) []yahoorss.Headline {
	if len(hs) > n {
		return hs[:n]
	}
	return hs
}

func (p *Plugin) BeginCycle(displayMode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
	p.shownAt = time.Time{}
	p.wrapped = false
}

// Display shows the current headline, advancing after the hold elapses.
func (p *Plugin) Display(ctx context.Context, displayMode string, forceClear bool) bool {
	if !p.cfg.Enabled || displayMode != ModeHeadlines {
		return false
	}

	p.mu.Lock()
	if len(p.headlines) == 0 {
		p.mu.Unlock()
		return false
	}
	now := p.now()
	hold := time.Duration(p.cfg.HoldSec) * time.Second
	if p.shownAt.IsZero() {
		p.shownAt = now
	} else if now.Sub(p.shownAt) >= hold {
		p.index++
		if p.index >= len(p.headlines) {
			p.index = 0
			p.wrapped = true
		}
		p.shownAt = now
		forceClear = true
	}
	h := p.headlines[p.index]
	p.mu.Unlock()

	if forceClear {
		p.surface.Clear()
	}
	display.DrawLines(p.surface, p.text, []string{h.Source, yahoorss.CleanHeadline(h.Title)}, 2)
	if err := p.surface.Push(); err != nil {
		log.Printf("[stocks] push frame: %v", err)
		return false
	}
	return true
}

func (p *Plugin) IsCycleComplete(displayMode string) bool {
	if displayMode != ModeHeadlines {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.headlines) == 0 {
		return true
	}
	if p.wrapped {
		return true
	}
	if len(p.headlines) == 1 && !p.shownAt.IsZero() {
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
		"symbols":   p.cfg.Symbols,
		"headlines": len(p.headlines),
	}
}
