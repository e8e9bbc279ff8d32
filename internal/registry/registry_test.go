package registry_test

import (
	"testing"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/registry"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

func TestEnabledLeagues_PriorityOrder(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.LeagueEntry{ID: "ncaa_mens", Enabled: true, Priority: 2})
	reg.Register(&registry.LeagueEntry{ID: "nhl", Enabled: true, Priority: 1})
	reg.Register(&registry.LeagueEntry{ID: "ncaa_womens", Enabled: true, Priority: 3})

	got := reg.EnabledLeagues(contracts.ModeRecent)
	want := []string{"nhl", "ncaa_mens", "ncaa_womens"}

	if len(got) != len(want) {
		t.Fatalf("EnabledLeagues() returned %d leagues, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EnabledLeagues()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEnabledLeagues_ExcludesDisabledLeague(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.LeagueEntry{ID: "nhl", Enabled: true, Priority: 1})
	reg.Register(&registry.LeagueEntry{ID: "ncaa_mens", Enabled: false, Priority: 2})

	got := reg.EnabledLeagues(contracts.ModeLive)
	if len(got) != 1 || got[0] != "nhl" {
		t.Errorf("EnabledLeagues() = %v, want [nhl]", got)
	}
}

func TestEnabledLeagues_ExcludesDisabledMode(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.LeagueEntry{
		ID: "nhl", Enabled: true, Priority: 1,
		ModeFlags: map[contracts.ModeType]bool{contracts.ModeUpcoming: false},
	})

	if got := reg.EnabledLeagues(contracts.ModeUpcoming); len(got) != 0 {
		t.Errorf("EnabledLeagues(upcoming) = %v, want empty", got)
	}
	if got := reg.EnabledLeagues(contracts.ModeRecent); len(got) != 1 {
		t.Errorf("EnabledLeagues(recent) = %v, want [nhl]", got)
	}
}

func TestEnabledLeagues_UnknownModeTypeReturnsEmpty(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.LeagueEntry{ID: "nhl", Enabled: true, Priority: 1})

	if got := reg.EnabledLeagues(contracts.ModeType("halftime")); len(got) != 0 {
		t.Errorf("EnabledLeagues(halftime) = %v, want empty", got)
	}
}

func TestSetEnabled_TogglesLeague(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.LeagueEntry{ID: "nhl", Enabled: true, Priority: 1})

	reg.SetEnabled("nhl", false)
	if got := reg.EnabledLeagues(contracts.ModeRecent); len(got) != 0 {
		t.Errorf("EnabledLeagues() after disable = %v, want empty", got)
	}

	reg.SetEnabled("nhl", true)
	if got := reg.EnabledLeagues(contracts.ModeRecent); len(got) != 1 {
		t.Errorf("EnabledLeagues() after re-enable = %v, want [nhl]", got)
	}
}

func TestEntry_UnknownLeague(t *testing.T) {
	reg := registry.New()
	if _, err := reg.Entry("khl"); err == nil {
		t.Error("Entry(khl) error = nil, want error for unregistered league")
	}
}
