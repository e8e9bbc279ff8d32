package jolpi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// BaseURL is the Jolpi Ergast-compatible F1 API
const BaseURL = "https://api.jolpi.ca/ergast/f1"

// Client fetches Formula 1 standings and results. When the current
// season has no data yet (early in the year), calls fall back to the
// previous season so the sign never shows an empty table.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a Jolpi client
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    BaseURL,
	}
}

// NewWithBaseURL creates a client against a non-default endpoint, for tests
func NewWithBaseURL(base string) *Client {
	c := New()
	c.baseURL = base
	return c
}

// DriverStanding is one row of the championship table
type DriverStanding struct {
	Position string `json:"position"`
	Points   string `json:"points"`
	Wins     string `json:"wins"`
	Driver   struct {
		Code       string `json:"code"`
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"Driver"`
	Constructors []struct {
		Name string `json:"name"`
	} `json:"Constructors"`
}

// ConstructorStanding is one row of the constructors table
type ConstructorStanding struct {
	Position    string `json:"position"`
	Points      string `json:"points"`
	Wins        string `json:"wins"`
	Constructor struct {
		Name string `json:"name"`
	} `json:"Constructor"`
}

// RaceResult is one classified finisher of a race
type RaceResult struct {
	Position string `json:"position"`
	Points   string `json:"points"`
	Status   string `json:"status"`
	Driver   struct {
		Code       string `json:"code"`
		FamilyName string `json:"familyName"`
	} `json:"Driver"`
	Constructor struct {
		Name string `json:"name"`
	} `json:"Constructor"`
}

// Race is a race header with its results
type Race struct {
	Season   string       `json:"season"`
	Round    string       `json:"round"`
	RaceName string       `json:"raceName"`
	Date     string       `json:"date"`
	Results  []RaceResult `json:"Results"`
}

type mrData struct {
	MRData struct {
		StandingsTable struct {
			StandingsLists []struct {
				DriverStandings      []DriverStanding      `json:"DriverStandings"`
				ConstructorStandings []ConstructorStanding `json:"ConstructorStandings"`
			} `json:"StandingsLists"`
		} `json:"StandingsTable"`
		RaceTable struct {
			Races []Race `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

// DriverStandings fetches the championship table for a season,
// falling back to the previous season when the table is empty.
func (c *Client) DriverStandings(ctx context.Context, season int) ([]DriverStanding, error) {
	for _, s := range []int{season, season - 1} {
		var data mrData
		if err := c.fetch(ctx, fmt.Sprintf("%s/%d/driverStandings.json", c.baseURL, s), &data); err != nil {
			return nil, err
		}
		lists := data.MRData.StandingsTable.StandingsLists
		if len(lists) > 0 && len(lists[0].DriverStandings) > 0 {
			return lists[0].DriverStandings, nil
		}
		log.Printf("[jolpi] no driver standings for %d, trying previous season", s)
	}
	return nil, fmt.Errorf("no driver standings for season %d or %d", season, season-1)
}

// ConstructorStandings fetches the constructors table with the same
// previous-season fallback.
func (c *Client) ConstructorStandings(ctx context.Context, season int) ([]ConstructorStanding, error) {
	for _, s := range []int{season, season - 1} {
		var data mrData
		if err := c.fetch(ctx, fmt.Sprintf("%s/%d/constructorStandings.json", c.baseURL, s), &data); err != nil {
			return nil, err
		}
		lists := data.MRData.StandingsTable.StandingsLists
		if len(lists) > 0 && len(lists[0].ConstructorStandings) > 0 {
			return lists[0].ConstructorStandings, nil
		}
		log.Printf("[jolpi] no constructor standings for %d, trying previous season", s)
	}
	return nil, fmt.Errorf("no constructor standings for season %d or %d", season, season-1)
}

// RaceResults fetches the classified results of one round
func (c *Client) RaceResults(ctx context.Context, season, round int) (*Race, error) {
	var data mrData
	if err := c.fetch(ctx, fmt.Sprintf("%s/%d/%d/results.json", c.baseURL, season, round), &data); err != nil {
		return nil, err
	}
	races := data.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, fmt.Errorf("no results for %d round %d", season, round)
	}
	return &races[0], nil
}

// LastRace fetches the most recent completed race of a season,
// falling back to the previous season.
func (c *Client) LastRace(ctx context.Context, season int) (*Race, error) {
	for _, s := range []int{season, season - 1} {
		var data mrData
		if err := c.fetch(ctx, fmt.Sprintf("%s/%d/last/results.json", c.baseURL, s), &data); err != nil {
			return nil, err
		}
		if races := data.MRData.RaceTable.Races; len(races) > 0 {
			return &races[0], nil
		}
	}
	return nil, fmt.Errorf("no completed race for season %d or %d", season, season-1)
}

func (c *Client) fetch(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("jolpi API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
