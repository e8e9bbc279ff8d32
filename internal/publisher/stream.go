package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DisplayEvent describes one frame the sign just showed. Downstream
// consumers (web preview, logging) read these off Redis streams.
type DisplayEvent struct {
	PluginID    string    `json:"plugin_id"`
	DisplayMode string    `json:"display_mode"`
	LeagueID    string    `json:"league_id,omitempty"`
	GameID      string    `json:"game_id,omitempty"`
	ShownAt     time.Time `json:"shown_at"`
}

// StreamPublisher publishes display activity to Redis streams
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// PublishDisplayEvent publishes a frame event to the plugin's stream
func (p *StreamPublisher) PublishDisplayEvent(ctx context.Context, ev DisplayEvent) error {
	streamKey := fmt.Sprintf("sign.display.%s", ev.PluginID)

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling display event: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"data":         string(data),
			"display_mode": ev.DisplayMode,
		},
	}).Err()
}

// PublishCycleComplete publishes a rotation-lap completion marker
func (p *StreamPublisher) PublishCycleComplete(ctx context.Context, pluginID, displayMode string) error {
	streamKey := fmt.Sprintf("sign.cycles.%s", pluginID)

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"display_mode": displayMode,
			"completed_at": time.Now().Format(time.RFC3339),
		},
	}).Err()
}
