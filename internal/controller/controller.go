// Package controller drives the sign: it walks the configured plugins
// and their display modes, begins a rotation cycle for each, renders
// frames until the cycle completes, then moves on.
package controller

import (
	"context"
	"log"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/hub"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/publisher"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

const (
	defaultFrameInterval = time.Second
	// maxSlotDuration caps how long a mode may hold the sign even when
	// its cycle never reports complete (e.g. a game list that keeps
	// growing mid-cycle).
	maxSlotDuration = 5 * time.Minute
)

// slot is one (plugin, display mode) pair in the rotation.
type slot struct {
	plugin contracts.Plugin
	mode   string
}

// Controller owns the render loop.
type Controller struct {
	slots         []slot
	pub           *publisher.StreamPublisher
	hub           *hub.Hub
	surface       contracts.Surface
	text          *display.TextRenderer
	frameInterval time.Duration

	now func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithPublisher mirrors display activity onto Redis streams
func WithPublisher(pub *publisher.StreamPublisher) Option {
	return func(c *Controller) { c.pub = pub }
}

// WithHub mirrors display activity onto the websocket hub
func WithHub(h *hub.Hub) Option {
	return func(c *Controller) { c.hub = h }
}

// WithIdleScreen gives the controller a surface to draw a "No Data"
// frame on when a full lap over the slots showed nothing.
func WithIdleScreen(s contracts.Surface, text *display.TextRenderer) Option {
	return func(c *Controller) {
		c.surface = s
		c.text = text
	}
}

// WithFrameInterval sets the render tick
func WithFrameInterval(d time.Duration) Option {
	return func(c *Controller) { c.frameInterval = d }
}

// New builds a controller over the enabled plugins, preserving the
// given plugin order.
func New(plugins []contracts.Plugin, opts ...Option) *Controller {
	c := &Controller{
		frameInterval: defaultFrameInterval,
		now:           time.Now,
	}
	for _, p := range plugins {
		if !p.Enabled() {
			continue
		}
		for _, mode := range p.DisplayModes() {
			c.slots = append(c.slots, slot{plugin: p, mode: mode})
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slots reports how many (plugin, mode) pairs are in the rotation.
func (c *Controller) Slots() int { return len(c.slots) }

// Run drives the rotation until the context is canceled.
func (c *Controller) Run(ctx context.Context) {
	if len(c.slots) == 0 {
		log.Printf("[controller] no enabled plugins, nothing to display")
		<-ctx.Done()
		return
	}
	log.Printf("[controller] rotating %d display slots", len(c.slots))

	ticker := time.NewTicker(c.frameInterval)
	defer ticker.Stop()

	i := 0
	shownInLap := false
	for {
		s := c.slots[i%len(c.slots)]
		i++
		if c.runSlot(ctx, s, ticker) {
			shownInLap = true
		}
		if ctx.Err() != nil {
			return
		}
		if i%len(c.slots) == 0 {
			if !shownInLap {
				c.showIdle(ctx, ticker)
			}
			shownInLap = false
		}
	}
}

// showIdle holds a "No Data" frame for one tick so the sign is not
// left blank when every mode came up empty.
func (c *Controller) showIdle(ctx context.Context, ticker *time.Ticker) {
	if c.surface != nil && c.text != nil {
		display.DrawMessage(c.surface, c.text, "No Data")
		if err := c.surface.Push(); err != nil {
			log.Printf("[controller] push idle frame: %v", err)
		}
	}
	select {
	case <-ctx.Done():
	case <-ticker.C:
	}
}

// runSlot renders one (plugin, mode) pair through a full cycle,
// reporting whether anything was shown.
func (c *Controller) runSlot(ctx context.Context, s slot, ticker *time.Ticker) bool {
	s.plugin.BeginCycle(s.mode)

	shown := s.plugin.Display(ctx, s.mode, true)
	if !shown {
		// Nothing to show for this mode right now; move on.
		return false
	}
	c.announce(ctx, s)

	deadline := c.now().Add(maxSlotDuration)
	for {
		select {
		case <-ctx.Done():
			return true
		case <-ticker.C:
		}

		if s.plugin.IsCycleComplete(s.mode) {
			c.announceCycleComplete(ctx, s)
			return true
		}
		if c.now().After(deadline) {
			log.Printf("[controller] %s/%s exceeded slot cap, advancing", s.plugin.ID(), s.mode)
			return true
		}
		if !s.plugin.Display(ctx, s.mode, false) {
			return true
		}
	}
}

func (c *Controller) announce(ctx context.Context, s slot) {
	ev := publisher.DisplayEvent{
		PluginID:    s.plugin.ID(),
		DisplayMode: s.mode,
		ShownAt:     c.now(),
	}
	if c.pub != nil {
		if err := c.pub.PublishDisplayEvent(ctx, ev); err != nil {
			log.Printf("[controller] publish display event: %v", err)
		}
	}
	if c.hub != nil {
		c.hub.Broadcast(ev)
	}
}

func (c *Controller) announceCycleComplete(ctx context.Context, s slot) {
	if c.pub == nil {
		return
	}
	if err := c.pub.PublishCycleComplete(ctx, s.plugin.ID(), s.mode); err != nil {
		log.Printf("[controller] publish cycle complete: %v", err)
	}
}
