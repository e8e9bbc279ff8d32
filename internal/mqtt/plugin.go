package mqtt

import (
	"context"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// ModeNotifications is the plugin's only display mode.
const ModeNotifications = "notifications"

// Plugin adapts the notification manager to the sign's plugin surface.
// Unlike the sports plugins it has no leagues and no rotation
// scheduler: one notification shows at a time, and a cycle is complete
// once the current notification has been held for its duration.
type Plugin struct {
	manager *Manager
	surface contracts.Surface
	enabled bool

	mu        sync.Mutex
	shownID   string
	shownAt   time.Time
	completed bool

	now func() time.Time
}

// NewPlugin wraps the manager as a display plugin drawing to surface.
func NewPlugin(manager *Manager, surface contracts.Surface, enabled bool) *Plugin {
	return &Plugin{manager: manager, surface: surface, enabled: enabled, now: time.Now}
}

func (p *Plugin) ID() string             { return "mqtt" }
func (p *Plugin) Enabled() bool          { return p.enabled }
func (p *Plugin) DisplayModes() []string { return []string{ModeNotifications} }

// Update is a no-op: notifications arrive pushed from the broker.
func (p *Plugin) Update(ctx context.Context) {}

// BeginCycle resets the hold timer for a fresh pass.
func (p *Plugin) BeginCycle(displayMode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shownID = ""
	p.shownAt = time.Time{}
	p.completed = false
}

// Display shows the newest notification and tracks how long it has
// been held. A new arrival restarts the hold.
func (p *Plugin) Display(ctx context.Context, displayMode string, forceClear bool) bool {
	if !p.enabled || displayMode != ModeNotifications {
		return false
	}
	pending := p.manager.Pending()
	if len(pending) == 0 {
		return false
	}
	if !p.manager.Display(p.surface, forceClear) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if pending[0].ID != p.shownID {
		p.shownID = pending[0].ID
		p.shownAt = now
		p.completed = false
		return true
	}
	if now.Sub(p.shownAt) >= p.manager.cfg.HoldDuration {
		p.completed = true
	}
	return true
}

func (p *Plugin) IsCycleComplete(displayMode string) bool {
	if displayMode != ModeNotifications {
		return false
	}
	if len(p.manager.Pending()) == 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

func (p *Plugin) Info() map[string]interface{} {
	pending := p.manager.Pending()
	topics := make([]string, 0, len(pending))
	for _, n := range pending {
		topics = append(topics, n.Topic)
	}
	return map[string]interface{}{
		"plugin":  p.ID(),
		"enabled": p.enabled,
		"pending": len(pending),
		"topics":  topics,
	}
}
