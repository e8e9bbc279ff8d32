package controller

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

type fakeSurface struct {
	mu     sync.Mutex
	frame  *image.RGBA
	pushes int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{frame: image.NewRGBA(image.Rect(0, 0, 64, 32))}
}

func (s *fakeSurface) Bounds() image.Rectangle { return s.frame.Bounds() }
func (s *fakeSurface) Frame() *image.RGBA      { return s.frame }
func (s *fakeSurface) Clear()                  {}

func (s *fakeSurface) Push() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushes++
	return nil
}

func (s *fakeSurface) pushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes
}

type fakePlugin struct {
	id      string
	enabled bool
	modes   []string

	mu         sync.Mutex
	begins     []string
	displays   int
	completeIn int // Display calls until IsCycleComplete
	show       bool
}

func (p *fakePlugin) ID() string             { return p.id }
func (p *fakePlugin) Enabled() bool          { return p.enabled }
func (p *fakePlugin) DisplayModes() []string { return p.modes }

func (p *fakePlugin) BeginCycle(mode string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begins = append(p.begins, mode)
}

func (p *fakePlugin) Display(ctx context.Context, mode string, forceClear bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.displays++
	return p.show
}

func (p *fakePlugin) IsCycleComplete(mode string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displays >= p.completeIn
}

func (p *fakePlugin) Update(ctx context.Context)   {}
func (p *fakePlugin) Info() map[string]interface{} { return map[string]interface{}{"plugin": p.id} }

func TestNew_SkipsDisabledPlugins(t *testing.T) {
	on := &fakePlugin{id: "a", enabled: true, modes: []string{"live", "recent"}}
	off := &fakePlugin{id: "b", enabled: false, modes: []string{"live"}}

	c := New([]contracts.Plugin{on, off})
	if c.Slots() != 2 {
		t.Errorf("expected 2 slots from the enabled plugin, got %d", c.Slots())
	}
}

func TestRun_BeginsCycleForEachSlot(t *testing.T) {
	p := &fakePlugin{id: "a", enabled: true, modes: []string{"live", "recent"}, show: true, completeIn: 1}

	c := New([]contracts.Plugin{p}, WithFrameInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		p.mu.Lock()
		n := len(p.begins)
		p.mu.Unlock()
		if n >= 4 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("controller never rotated through both modes twice")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.begins[0] != "live" || p.begins[1] != "recent" {
		t.Errorf("expected live then recent, got %v", p.begins[:2])
	}
}

func TestRun_SkipsSlotWithNothingToShow(t *testing.T) {
	empty := &fakePlugin{id: "empty", enabled: true, modes: []string{"live"}, show: false}
	busy := &fakePlugin{id: "busy", enabled: true, modes: []string{"live"}, show: true, completeIn: 1}

	c := New([]contracts.Plugin{empty, busy}, WithFrameInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		busy.mu.Lock()
		n := busy.displays
		busy.mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("controller stuck behind an empty slot")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestRun_ShowsIdleFrameWhenEveryModeIsEmpty(t *testing.T) {
	empty := &fakePlugin{id: "empty", enabled: true, modes: []string{"live", "recent"}, show: false}
	surface := newFakeSurface()
	text, err := display.NewTextRenderer()
	if err != nil {
		t.Fatalf("loading font: %v", err)
	}

	c := New([]contracts.Plugin{empty},
		WithFrameInterval(time.Millisecond),
		WithIdleScreen(surface, text),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for surface.pushCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("controller never pushed an idle frame")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
