package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// BaseURL is the Google Calendar v3 REST API
const BaseURL = "https://www.googleapis.com/calendar/v3"

// Client fetches calendar events with an externally supplied OAuth
// access token. The browser consent flow lives outside this daemon;
// the token is refreshed by whatever provisions it.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// New creates a calendar client with a bearer token
func New(accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     BaseURL,
		accessToken: accessToken,
	}
}

// NewWithBaseURL creates a client against a non-default endpoint, for tests
func NewWithBaseURL(base, accessToken string) *Client {
	c := New(accessToken)
	c.baseURL = base
	return c
}

// Event is one calendar entry
type Event struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
	Start    struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"` // all-day events
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		Date     string `json:"date"`
	} `json:"end"`
}

// StartTime resolves the event start, handling all-day events
func (e Event) StartTime() time.Time {
	if e.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, e.Start.DateTime); err == nil {
			return t
		}
	}
	if e.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", e.Start.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// AllDay reports whether the event has no time component
func (e Event) AllDay() bool {
	return e.Start.DateTime == "" && e.Start.Date != ""
}

type eventsResponse struct {
	Items []Event `json:"items"`
}

// UpcomingEvents fetches the next events of a calendar, soonest first
func (c *Client) UpcomingEvents(ctx context.Context, calendarID string, maxResults int) ([]Event, error) {
	q := url.Values{}
	q.Set("timeMin", time.Now().Format(time.RFC3339))
	q.Set("maxResults", fmt.Sprint(maxResults))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	reqURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(calendarID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("calendar API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var events eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return events.Items, nil
}
