package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// BaseURL is the public site API that backs the scoreboard pages
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"

	maxAttempts  = 3
	retryBackoff = 2 * time.Second
)

// Client handles ESPN API requests for any sport path
// ("hockey/nhl", "soccer/eng.1", "baseball/mlb", "racing/f1", ...)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a new ESPN API client
func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; LEDMatrixSign/1.0)",
	}
}

// FetchScoreboard fetches games for a sport path. If date is zero,
// ESPN returns whatever it considers "today".
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (map[string]interface{}, error) {
	var url string
	if date.IsZero() {
		url = fmt.Sprintf("%s/%s/scoreboard", BaseURL, sportPath)
	} else {
		url = fmt.Sprintf("%s/%s/scoreboard?dates=%s", BaseURL, sportPath, date.Format("20060102"))
	}
	return c.fetch(ctx, url)
}

// FetchScoreboardRange fetches games across a date span, used by the
// recent and upcoming managers.
func (c *Client) FetchScoreboardRange(ctx context.Context, sportPath string, from, to time.Time) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?dates=%s-%s",
		BaseURL, sportPath, from.Format("20060102"), to.Format("20060102"))
	return c.fetch(ctx, url)
}

// fetch makes an HTTP GET request with fixed-backoff retries and
// returns parsed JSON
func (c *Client) fetch(ctx context.Context, url string) (map[string]interface{}, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
		result, err := c.fetchOnce(ctx, url)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ESPN API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}
