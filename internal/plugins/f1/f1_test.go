package f1

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/scoreboard"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/jolpi"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/openf1"
)

type fakeSurface struct {
	frame *image.RGBA
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{frame: image.NewRGBA(image.Rect(0, 0, 64, 32))}
}

func (s *fakeSurface) Bounds() image.Rectangle { return s.frame.Bounds() }
func (s *fakeSurface) Frame() *image.RGBA      { return s.frame }
func (s *fakeSurface) Clear()                  {}
func (s *fakeSurface) Push() error             { return nil }

func newTestPlugin(t *testing.T) *Plugin {
	t.Helper()
	text, err := display.NewTextRenderer()
	if err != nil {
		t.Fatalf("loading font: %v", err)
	}
	return New(Config{
		Config:           scoreboard.Config{Enabled: true},
		StandingsEnabled: true,
		PageHoldSec:      10,
	}, Deps{
		Scoreboard: scoreboard.Deps{Surface: newFakeSurface(), Text: text},
	})
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		lines int
		pages int
	}{
		{0, 0},
		{3, 1},
		{4, 1},
		{5, 2},
		{9, 3},
	}
	for _, tt := range tests {
		lines := make([]string, tt.lines)
		if got := len(paginate(lines, 4)); got != tt.pages {
			t.Errorf("paginate(%d lines) = %d pages, want %d", tt.lines, got, tt.pages)
		}
	}
}

func TestStandingsCycle_CompletesAfterAllPages(t *testing.T) {
	p := newTestPlugin(t)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }

	p.setPages(ModeStandings, [][]string{
		{"1 VER 250", "2 NOR 220"},
		{"1 McLaren 400"},
	})
	p.BeginCycle(ModeStandings)

	if !p.displayPages(ModeStandings, true) {
		t.Fatal("expected first page to display")
	}
	if p.IsCycleComplete(ModeStandings) {
		t.Fatal("cycle complete after first page")
	}

	clock = clock.Add(10 * time.Second)
	if !p.displayPages(ModeStandings, false) {
		t.Fatal("expected second page to display")
	}
	if p.IsCycleComplete(ModeStandings) {
		t.Fatal("cycle complete before second page held")
	}

	clock = clock.Add(10 * time.Second)
	if !p.displayPages(ModeStandings, false) {
		t.Fatal("expected wraparound display")
	}
	if !p.IsCycleComplete(ModeStandings) {
		t.Error("cycle should complete once every page has shown")
	}
}

func TestStandingsCycle_EmptyPagesComplete(t *testing.T) {
	p := newTestPlugin(t)
	p.BeginCycle(ModeStandings)
	if !p.IsCycleComplete(ModeStandings) {
		t.Error("no standings data should read as complete")
	}
}

func TestDisplayModes_FollowConfigFlags(t *testing.T) {
	p := newTestPlugin(t)
	modes := p.DisplayModes()
	found := false
	for _, m := range modes {
		if m == ModeStandings {
			found = true
		}
		if m == ModeResults {
			t.Error("results mode enabled without config flag")
		}
		if m == ModePractice {
			t.Error("practice mode enabled without config flag")
		}
	}
	if !found {
		t.Error("standings mode missing")
	}
}

func TestUpdateResults_RendersLastRacePages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"MRData":{"RaceTable":{"Races":[{
			"season":"2026","round":"12","raceName":"Belgian Grand Prix","date":"2026-07-26",
			"Results":[
				{"position":"1","points":"25","Driver":{"code":"VER"},"Constructor":{"name":"Red Bull"}},
				{"position":"2","points":"18","Driver":{"code":"NOR"},"Constructor":{"name":"McLaren"}}
			]}]}}}`)
	}))
	defer srv.Close()

	p := newTestPlugin(t)
	p.cfg.ResultsEnabled = true
	p.deps.Jolpi = jolpi.NewWithBaseURL(srv.URL)
	p.updateResults(context.Background())

	pages := p.pages[ModeResults]
	if len(pages) != 1 {
		t.Fatalf("expected 1 results page, got %d", len(pages))
	}
	if pages[0][0] != "Belgian Grand Prix" {
		t.Errorf("expected race name header, got %q", pages[0][0])
	}
	if pages[0][1] != "1 VER 25" {
		t.Errorf("expected winner row, got %q", pages[0][1])
	}

	if !p.displayPages(ModeResults, true) {
		t.Error("expected results page to display")
	}
}

func TestUpdatePractice_FillsPagesFromPracticeSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions":
			json.NewEncoder(w).Encode([]openf1.Session{
				{SessionKey: 9001, SessionName: "Practice 1", SessionType: "Practice", CountryName: "Belgium", Year: 2026},
				{SessionKey: 9003, SessionName: "Practice 3", SessionType: "Practice", CountryName: "Belgium", Year: 2026},
			})
		case "/laps":
			json.NewEncoder(w).Encode([]openf1.Lap{
				{DriverNumber: 1, LapNumber: 5, LapDuration: 91.2},
				{DriverNumber: 4, LapNumber: 6, LapDuration: 92.1},
			})
		case "/drivers":
			json.NewEncoder(w).Encode([]openf1.Driver{
				{DriverNumber: 1, NameAcronym: "VER"},
				{DriverNumber: 4, NameAcronym: "NOR"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := newTestPlugin(t)
	p.cfg.PracticeEnabled = true
	p.deps.OpenF1 = openf1.NewWithBaseURL(srv.URL)
	p.updatePractice(context.Background())

	pages := p.pages[ModePractice]
	if len(pages) == 0 {
		t.Fatal("expected practice pages from the session feed")
	}
	if pages[0][0] != "Practice 3 Belgium" {
		t.Errorf("expected latest session header, got %q", pages[0][0])
	}
	if pages[0][1] != "1 VER 91.200" {
		t.Errorf("expected fastest lap row, got %q", pages[0][1])
	}
}

func TestPollInterval_FollowsConfig(t *testing.T) {
	p := newTestPlugin(t)
	if got := p.PollInterval(); got != 10*time.Minute {
		t.Errorf("expected 10m default, got %v", got)
	}
	p.cfg.PollIntervalSec = 120
	if got := p.PollInterval(); got != 2*time.Minute {
		t.Errorf("expected configured 2m, got %v", got)
	}
}
