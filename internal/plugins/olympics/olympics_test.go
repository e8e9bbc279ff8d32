package olympics

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
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

func newTestPlugin(t *testing.T, url string) *Plugin {
	t.Helper()
	text, err := display.NewTextRenderer()
	if err != nil {
		t.Fatalf("loading font: %v", err)
	}
	return New(Config{Enabled: true, SnapshotURL: url, PageHoldSec: 10}, nil, newFakeSurface(), text)
}

func TestUpdate_SwapsSnapshotWholesale(t *testing.T) {
	snap := Snapshot{
		Medals: []MedalRow{
			{Country: "Norway", Code: "NOR", Gold: 14, Silver: 10, Bronze: 9},
			{Country: "Germany", Code: "GER", Gold: 12, Silver: 8, Bronze: 6},
		},
		Schedule: []ScheduleEvent{
			{Sport: "Biathlon", Name: "Mass Start", Start: time.Date(2026, 2, 20, 14, 0, 0, 0, time.UTC)},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(snap)
	}))
	defer srv.Close()

	p := newTestPlugin(t, srv.URL)
	p.Update(context.Background())

	info := p.Info()
	if info["medals"] != 2 {
		t.Errorf("expected 2 medal rows, got %v", info["medals"])
	}
	if info["schedule"] != 1 {
		t.Errorf("expected 1 scheduled event, got %v", info["schedule"])
	}
}

func TestUpdate_FailedFetchKeepsCurrentSnapshot(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Snapshot{Medals: []MedalRow{{Code: "USA", Gold: 9}}})
	}))
	defer srv.Close()

	p := newTestPlugin(t, srv.URL)
	p.Update(context.Background())
	p.Update(context.Background())

	if got := p.Info()["medals"]; got != 1 {
		t.Errorf("expected snapshot to survive a failed poll, got %v medals", got)
	}
}

func TestMedalsCycle_CompletesAfterAllPages(t *testing.T) {
	p := newTestPlugin(t, "")
	clock := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }

	medals := make([]MedalRow, 6) // two pages at 4 rows per page
	for i := range medals {
		medals[i] = MedalRow{Code: "C", Gold: i}
	}
	p.swap(Snapshot{Medals: medals})
	p.BeginCycle(ModeMedals)

	if !p.Display(context.Background(), ModeMedals, true) {
		t.Fatal("expected first page to display")
	}
	if p.IsCycleComplete(ModeMedals) {
		t.Fatal("cycle complete after one page")
	}

	clock = clock.Add(10 * time.Second)
	p.Display(context.Background(), ModeMedals, false)
	clock = clock.Add(10 * time.Second)
	p.Display(context.Background(), ModeMedals, false)

	if !p.IsCycleComplete(ModeMedals) {
		t.Error("cycle should complete after both pages held")
	}
}

func TestDisplay_NoSnapshotShowsNothing(t *testing.T) {
	p := newTestPlugin(t, "")
	if p.Display(context.Background(), ModeMedals, true) {
		t.Error("expected false with no snapshot")
	}
	if !p.IsCycleComplete(ModeMedals) {
		t.Error("empty mode should read as complete")
	}
}
