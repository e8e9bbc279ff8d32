package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

// TTL constants
const (
	LeagueGamesTTL = 24 * time.Hour
	LiveGameTTL    = 2 * time.Hour
	FinalGameTTL   = 6 * time.Hour
	SnapshotTTL    = 30 * time.Minute
)

// Writer caches manager poll results in Redis so a failed poll can
// degrade to the last known data instead of a blank sign.
type Writer struct {
	client *redis.Client
}

// NewWriter creates a Redis cache writer
func NewWriter(client *redis.Client) *Writer {
	return &Writer{client: client}
}

// WriteLeagueGames stores a league+mode's full game list wholesale
func (w *Writer) WriteLeagueGames(ctx context.Context, leagueID, mode string, games []models.Game) error {
	key := fmt.Sprintf("games:%s:%s", leagueID, mode)
	data, err := json.Marshal(games)
	if err != nil {
		return fmt.Errorf("marshaling games: %w", err)
	}
	return w.client.Set(ctx, key, data, LeagueGamesTTL).Err()
}

// ReadLeagueGames retrieves the last cached game list for a league+mode
func (w *Writer) ReadLeagueGames(ctx context.Context, leagueID, mode string) ([]models.Game, error) {
	key := fmt.Sprintf("games:%s:%s", leagueID, mode)
	data, err := w.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var games []models.Game
	if err := json.Unmarshal([]byte(data), &games); err != nil {
		return nil, fmt.Errorf("unmarshaling games: %w", err)
	}
	return games, nil
}

// WriteGame stores one game keyed by ID, with a TTL based on its status
func (w *Writer) WriteGame(ctx context.Context, game models.Game) error {
	key := fmt.Sprintf("game:%s:%s", game.LeagueID, game.ID)
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshaling game: %w", err)
	}
	ttl := LiveGameTTL
	if game.IsFinal() {
		ttl = FinalGameTTL
	}
	return w.client.Set(ctx, key, data, ttl).Err()
}

// WriteSnapshot stores an arbitrary provider snapshot (standings,
// medal tables, headlines) under a plugin-scoped key.
func (w *Writer) WriteSnapshot(ctx context.Context, pluginID, name string, v interface{}) error {
	key := fmt.Sprintf("snapshot:%s:%s", pluginID, name)
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return w.client.Set(ctx, key, data, SnapshotTTL).Err()
}

// ReadSnapshot retrieves a provider snapshot into v
func (w *Writer) ReadSnapshot(ctx context.Context, pluginID, name string, v interface{}) error {
	key := fmt.Sprintf("snapshot:%s:%s", pluginID, name)
	data, err := w.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return nil
}
