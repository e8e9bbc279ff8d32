package scoreboard

import (
	"context"
	"testing"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

func mustRenderer(t *testing.T) *display.TextRenderer {
	t.Helper()
	r, err := display.NewTextRenderer()
	if err != nil {
		t.Fatalf("loading font: %v", err)
	}
	return r
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func testSpecs() []LeagueSpec {
	return []LeagueSpec{
		{ID: "nhl", SportPath: "hockey/nhl", Priority: 1, LivePriority: true},
		{ID: "ncaa_mens", SportPath: "hockey/mens-college-hockey", Priority: 2},
	}
}

func TestNew_ConfigOverridesSpecDefaults(t *testing.T) {
	cfg := Config{
		Enabled: true,
		Leagues: map[string]LeagueSettings{
			"nhl":       {Priority: intPtr(5), LivePriority: boolPtr(false)},
			"ncaa_mens": {Enabled: boolPtr(false)},
		},
	}
	p := New("hockey", testSpecs(), cfg, Deps{Client: &fakeFetcher{}, Surface: newFakeSurface()})

	reg := p.Scheduler().Registry()
	entry, err := reg.Entry("nhl")
	if err != nil {
		t.Fatalf("nhl not registered: %v", err)
	}
	if entry.Priority != 5 {
		t.Errorf("expected priority override 5, got %d", entry.Priority)
	}
	if entry.LivePriority {
		t.Error("expected live_priority override to false")
	}

	leagues := reg.EnabledLeagues(contracts.ModeRecent)
	for _, id := range leagues {
		if id == "ncaa_mens" {
			t.Error("disabled league still enabled")
		}
	}
}

func TestNew_CustomLeaguesAreRegistered(t *testing.T) {
	cfg := Config{
		Enabled: true,
		CustomLeagues: []CustomLeague{
			{ID: "championship", SportPath: "soccer/eng.2", Priority: 9},
		},
	}
	p := New("soccer", nil, cfg, Deps{Client: &fakeFetcher{}, Surface: newFakeSurface()})

	entry, err := p.Scheduler().Registry().Entry("championship")
	if err != nil {
		t.Fatalf("custom league not registered: %v", err)
	}
	if entry.Priority != 9 {
		t.Errorf("expected priority 9, got %d", entry.Priority)
	}
	if len(entry.Managers) != 3 {
		t.Errorf("expected a manager per mode, got %d", len(entry.Managers))
	}
}

func TestNew_DefaultDisplayModes(t *testing.T) {
	p := New("hockey", testSpecs(), Config{Enabled: true}, Deps{Client: &fakeFetcher{}, Surface: newFakeSurface()})
	modes := p.DisplayModes()
	if len(modes) != 3 {
		t.Fatalf("expected 3 default modes, got %v", modes)
	}
	for i, want := range []string{"live", "recent", "upcoming"} {
		if modes[i] != want {
			t.Errorf("mode %d: expected %s, got %s", i, want, modes[i])
		}
	}
}

func TestNew_ModeFlagsDisableOneMode(t *testing.T) {
	cfg := Config{
		Enabled: true,
		Leagues: map[string]LeagueSettings{
			"nhl": {DisplayModes: map[string]bool{"upcoming": false}},
		},
	}
	p := New("hockey", testSpecs(), cfg, Deps{Client: &fakeFetcher{}, Surface: newFakeSurface()})

	reg := p.Scheduler().Registry()
	for _, id := range reg.EnabledLeagues(contracts.ModeUpcoming) {
		if id == "nhl" {
			t.Error("nhl upcoming should be flagged off")
		}
	}
	found := false
	for _, id := range reg.EnabledLeagues(contracts.ModeLive) {
		if id == "nhl" {
			found = true
		}
	}
	if !found {
		t.Error("nhl live should stay enabled")
	}
}

func TestDisabledPluginShowsNothing(t *testing.T) {
	p := New("hockey", testSpecs(), Config{Enabled: false}, Deps{Client: &fakeFetcher{}, Surface: newFakeSurface()})
	if p.Display(context.Background(), "live", true) {
		t.Error("disabled plugin displayed content")
	}
}
