package jolpi_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/jolpi"
)

const standingsBody = `{"MRData": {"StandingsTable": {"StandingsLists": [{
	"DriverStandings": [
		{"position": "1", "points": "350", "wins": "12",
		 "Driver": {"code": "VER", "givenName": "Max", "familyName": "Verstappen"},
		 "Constructors": [{"name": "Red Bull"}]},
		{"position": "2", "points": "290", "wins": "4",
		 "Driver": {"code": "NOR", "givenName": "Lando", "familyName": "Norris"},
		 "Constructors": [{"name": "McLaren"}]}
	]
}]}}}`

const emptyStandingsBody = `{"MRData": {"StandingsTable": {"StandingsLists": []}}}`

func TestDriverStandings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, standingsBody)
	}))
	defer srv.Close()

	client := jolpi.NewWithBaseURL(srv.URL)
	standings, err := client.DriverStandings(context.Background(), 2026)
	if err != nil {
		t.Fatalf("DriverStandings() error = %v", err)
	}

	if len(standings) != 2 {
		t.Fatalf("DriverStandings() = %d rows, want 2", len(standings))
	}
	if standings[0].Driver.Code != "VER" {
		t.Errorf("standings[0].Driver.Code = %s, want VER", standings[0].Driver.Code)
	}
	if standings[0].Points != "350" {
		t.Errorf("standings[0].Points = %s, want 350", standings[0].Points)
	}
	if standings[1].Constructors[0].Name != "McLaren" {
		t.Errorf("standings[1] constructor = %s, want McLaren", standings[1].Constructors[0].Name)
	}
}

func TestDriverStandings_PreviousSeasonFallback(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if len(requested) == 1 {
			fmt.Fprint(w, emptyStandingsBody) // current season empty
			return
		}
		fmt.Fprint(w, standingsBody)
	}))
	defer srv.Close()

	client := jolpi.NewWithBaseURL(srv.URL)
	standings, err := client.DriverStandings(context.Background(), 2026)
	if err != nil {
		t.Fatalf("DriverStandings() error = %v", err)
	}

	if len(requested) != 2 {
		t.Fatalf("made %d requests, want 2 (fallback to previous season)", len(requested))
	}
	if requested[0] != "/2026/driverStandings.json" || requested[1] != "/2025/driverStandings.json" {
		t.Errorf("request paths = %v, want current then previous season", requested)
	}
	if len(standings) != 2 {
		t.Errorf("DriverStandings() after fallback = %d rows, want 2", len(standings))
	}
}

func TestLastRace(t *testing.T) {
	body := `{"MRData": {"RaceTable": {"Races": [{
		"season": "2026", "round": "3", "raceName": "Australian Grand Prix", "date": "2026-03-15",
		"Results": [
			{"position": "1", "points": "25", "status": "Finished",
			 "Driver": {"code": "VER", "familyName": "Verstappen"},
			 "Constructor": {"name": "Red Bull"}}
		]
	}]}}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := jolpi.NewWithBaseURL(srv.URL)
	race, err := client.LastRace(context.Background(), 2026)
	if err != nil {
		t.Fatalf("LastRace() error = %v", err)
	}
	if race.RaceName != "Australian Grand Prix" {
		t.Errorf("RaceName = %s, want Australian Grand Prix", race.RaceName)
	}
	if len(race.Results) != 1 || race.Results[0].Driver.Code != "VER" {
		t.Errorf("Results = %+v, want one row for VER", race.Results)
	}
}
