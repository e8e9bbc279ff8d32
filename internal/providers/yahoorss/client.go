package yahoorss

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// FeedURL is the Yahoo Finance per-symbol headline feed
const FeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// Headline is one news item from a feed
type Headline struct {
	Source    string
	Title     string
	Link      string
	Published time.Time
}

// Client fetches financial RSS headlines
type Client struct {
	httpClient *http.Client
	feedURL    string
}

// New creates a Yahoo Finance RSS client
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		feedURL:    FeedURL,
	}
}

// NewWithFeedURL creates a client against a non-default feed template, for tests
func NewWithFeedURL(tmpl string) *Client {
	c := New()
	c.feedURL = tmpl
	return c
}

type rssDoc struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// SymbolHeadlines fetches headlines for a stock symbol
func (c *Client) SymbolHeadlines(ctx context.Context, symbol string) ([]Headline, error) {
	return c.FeedHeadlines(ctx, symbol, fmt.Sprintf(c.feedURL, symbol))
}

// FeedHeadlines fetches headlines from an arbitrary RSS feed URL
func (c *Client) FeedHeadlines(ctx context.Context, source, feedURL string) ([]Headline, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "LEDMatrixSign/1.0 (RSS Reader)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feed error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var doc rssDoc
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	headlines := make([]Headline, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		title := CleanHeadline(item.Title)
		if title == "" {
			continue
		}
		h := Headline{Source: source, Title: title, Link: item.Link}
		if t, err := time.Parse(time.RFC1123Z, item.PubDate); err == nil {
			h.Published = t
		} else if t, err := time.Parse(time.RFC1123, item.PubDate); err == nil {
			h.Published = t
		}
		headlines = append(headlines, h)
	}
	return headlines, nil
}

// CleanHeadline strips markup entities and collapses whitespace so a
// headline renders on one scrolling line.
func CleanHeadline(s string) string {
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
