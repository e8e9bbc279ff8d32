package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BaseURL is the OpenF1 live timing API
const BaseURL = "https://api.openf1.org/v1"

// Client fetches session and lap data from OpenF1, used for practice
// results that the Ergast-style APIs do not carry.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates an OpenF1 client
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

// Session is one timed session of a race weekend
type Session struct {
	SessionKey  int    `json:"session_key"`
	SessionName string `json:"session_name"`
	SessionType string `json:"session_type"`
	CountryName string `json:"country_name"`
	DateStart   string `json:"date_start"`
	Year        int    `json:"year"`
}

// Lap is one recorded lap of a driver
type Lap struct {
	DriverNumber int     `json:"driver_number"`
	LapNumber    int     `json:"lap_number"`
	LapDuration  float64 `json:"lap_duration"`
}

// Driver maps a car number to a name for a session
type Driver struct {
	DriverNumber int    `json:"driver_number"`
	NameAcronym  string `json:"name_acronym"`
	TeamName     string `json:"team_name"`
}

// Sessions fetches a year's sessions of one type ("Practice",
// "Qualifying", "Race"). OpenF1 filters are exact-match, so the type
// field is the one that groups all practice sessions; session_name
// would only match a single "Practice N".
func (c *Client) Sessions(ctx context.Context, year int, sessionType string) ([]Session, error) {
	q := url.Values{}
	q.Set("year", fmt.Sprint(year))
	if sessionType != "" {
		q.Set("session_type", sessionType)
	}
	var sessions []Session
	if err := c.fetch(ctx, "/sessions?"+q.Encode(), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Laps fetches all laps of a session
func (c *Client) Laps(ctx context.Context, sessionKey int) ([]Lap, error) {
	var laps []Lap
	if err := c.fetch(ctx, fmt.Sprintf("/laps?session_key=%d", sessionKey), &laps); err != nil {
		return nil, err
	}
	return laps, nil
}

// Drivers fetches the driver roster of a session
func (c *Client) Drivers(ctx context.Context, sessionKey int) ([]Driver, error) {
	var drivers []Driver
	if err := c.fetch(ctx, fmt.Sprintf("/drivers?session_key=%d", sessionKey), &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

// FastestLaps reduces a session's laps to the best lap per driver
func FastestLaps(laps []Lap) map[int]float64 {
	best := make(map[int]float64)
	for _, lap := range laps {
		if lap.LapDuration <= 0 {
			continue
		}
		if cur, ok := best[lap.DriverNumber]; !ok || lap.LapDuration < cur {
			best[lap.DriverNumber] = lap.LapDuration
		}
	}
	return best
}

func (c *Client) fetch(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
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
		return fmt.Errorf("openf1 API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
