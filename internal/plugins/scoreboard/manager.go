package scoreboard

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/espn"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

const (
	defaultPollInterval   = time.Minute
	defaultGameDuration   = 15 * time.Second
	defaultRecentWindow   = 2 * 24 * time.Hour
	defaultUpcomingWindow = 3 * 24 * time.Hour
)

// Fetcher is the slice of the ESPN client the manager needs.
type Fetcher interface {
	FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (map[string]interface{}, error)
	FetchScoreboardRange(ctx context.Context, sportPath string, from, to time.Time) (map[string]interface{}, error)
}

// GameCache is the slice of the Redis cache the manager uses.
type GameCache interface {
	WriteLeagueGames(ctx context.Context, leagueID, mode string, games []models.Game) error
	ReadLeagueGames(ctx context.Context, leagueID, mode string) ([]models.Game, error)
	WriteGame(ctx context.Context, game models.Game) error
}

// ManagerConfig configures one league+mode manager.
type ManagerConfig struct {
	LeagueID  string
	SportPath string // ESPN path, e.g. "hockey/nhl"
	Mode      contracts.ModeType

	GameDuration time.Duration
	PollInterval time.Duration

	// RecentWindow bounds how far back final games are shown; the
	// UpcomingWindow bounds how far ahead scheduled games are shown.
	RecentWindow   time.Duration
	UpcomingWindow time.Duration

	// SharedMu, when set, guards the games slice with a lock shared
	// across all of a plugin's managers. The baseball leagues need this
	// because doubleheaders make their lists shift mid-cycle.
	SharedMu *sync.Mutex
}

// Manager serves one league in one display mode from the ESPN
// scoreboard feed. It keeps the last good list when a poll fails.
type Manager struct {
	cfg    ManagerConfig
	client Fetcher
	cache  GameCache
	text   *display.TextRenderer

	mu       sync.RWMutex
	sharedMu *sync.Mutex
	games    []models.Game
	current  int
	shownAt  time.Time

	now func() time.Time
}

var _ contracts.Manager = (*Manager)(nil)

// NewManager builds a league manager. gameCache may be nil when no
// Redis is available; degradation then just keeps the in-memory list.
func NewManager(cfg ManagerConfig, client Fetcher, gameCache GameCache, text *display.TextRenderer) *Manager {
	if cfg.GameDuration <= 0 {
		cfg.GameDuration = defaultGameDuration
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = defaultRecentWindow
	}
	if cfg.UpcomingWindow <= 0 {
		cfg.UpcomingWindow = defaultUpcomingWindow
	}
	return &Manager{
		cfg:      cfg,
		client:   client,
		cache:    gameCache,
		text:     text,
		sharedMu: cfg.SharedMu,
		now:      time.Now,
	}
}

func (m *Manager) LeagueID() string                   { return m.cfg.LeagueID }
func (m *Manager) Mode() contracts.ModeType           { return m.cfg.Mode }
func (m *Manager) GameDisplayDuration() time.Duration { return m.cfg.GameDuration }
func (m *Manager) PollInterval() time.Duration        { return m.cfg.PollInterval }

// Update polls ESPN, filters to this manager's mode, and replaces the
// game list wholesale. A failed poll falls back to the Redis cache and
// then to the in-memory list, so the sign degrades to stale data
// rather than going blank.
func (m *Manager) Update(ctx context.Context) error {
	raw, err := m.fetch(ctx)
	if err != nil {
		if m.cache != nil {
			if cached, cerr := m.cache.ReadLeagueGames(ctx, m.cfg.LeagueID, string(m.cfg.Mode)); cerr == nil {
				m.setGames(cached)
				log.Printf("[%s/%s] poll failed, serving %d cached games: %v",
					m.cfg.LeagueID, m.cfg.Mode, len(cached), err)
				return nil
			}
		}
		return fmt.Errorf("fetching %s scoreboard: %w", m.cfg.LeagueID, err)
	}

	games := m.filter(espn.ParseScoreboard(raw, m.cfg.LeagueID))
	m.setGames(games)

	if m.cache != nil {
		if err := m.cache.WriteLeagueGames(ctx, m.cfg.LeagueID, string(m.cfg.Mode), games); err != nil {
			log.Printf("[%s/%s] cache write failed: %v", m.cfg.LeagueID, m.cfg.Mode, err)
		}
		// Per-game entries carry status-based TTLs, so a final stays
		// readable after the recent list rolls past it.
		for _, g := range games {
			if g.Status == models.StatusPre {
				continue
			}
			if err := m.cache.WriteGame(ctx, g); err != nil {
				log.Printf("[%s/%s] cache game %s: %v", m.cfg.LeagueID, m.cfg.Mode, g.ID, err)
				break
			}
		}
	}
	return nil
}

func (m *Manager) fetch(ctx context.Context) (map[string]interface{}, error) {
	now := m.now()
	switch m.cfg.Mode {
	case contracts.ModeRecent:
		return m.client.FetchScoreboardRange(ctx, m.cfg.SportPath, now.Add(-m.cfg.RecentWindow), now)
	case contracts.ModeUpcoming:
		return m.client.FetchScoreboardRange(ctx, m.cfg.SportPath, now, now.Add(m.cfg.UpcomingWindow))
	default:
		return m.client.FetchScoreboard(ctx, m.cfg.SportPath, time.Time{})
	}
}

// filter keeps only the games this mode shows, sorted by start time.
func (m *Manager) filter(games []models.Game) []models.Game {
	now := m.now()
	var out []models.Game
	for _, g := range games {
		switch m.cfg.Mode {
		case contracts.ModeLive:
			if g.IsLive() {
				out = append(out, g)
			}
		case contracts.ModeRecent:
			if g.IsFinal() && now.Sub(g.StartTime) <= m.cfg.RecentWindow {
				out = append(out, g)
			}
		case contracts.ModeUpcoming:
			if g.Status == models.StatusPre && g.StartTime.Sub(now) <= m.cfg.UpcomingWindow {
				out = append(out, g)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *Manager) lock() {
	m.mu.Lock()
	if m.sharedMu != nil {
		m.sharedMu.Lock()
	}
}

func (m *Manager) unlock() {
	if m.sharedMu != nil {
		m.sharedMu.Unlock()
	}
	m.mu.Unlock()
}

func (m *Manager) rlock()   { m.mu.RLock() }
func (m *Manager) runlock() { m.mu.RUnlock() }

func (m *Manager) setGames(games []models.Game) {
	m.lock()
	defer m.unlock()
	m.games = games
	if m.current >= len(games) {
		m.current = 0
	}
}

// Games returns a copy of the last polled list.
func (m *Manager) Games() []models.Game {
	m.rlock()
	defer m.runlock()
	out := make([]models.Game, len(m.games))
	copy(out, m.games)
	return out
}

// CurrentGame returns the game holding the screen, if any.
func (m *Manager) CurrentGame() (models.Game, bool) {
	m.rlock()
	defer m.runlock()
	if len(m.games) == 0 {
		return models.Game{}, false
	}
	if m.current >= len(m.games) {
		return m.games[0], true
	}
	return m.games[m.current], true
}

// Display renders the current game and advances to the next one once it
// has held the screen for the configured duration. Returns false when
// the manager has nothing to show.
func (m *Manager) Display(s contracts.Surface, forceClear bool) bool {
	m.lock()
	if len(m.games) == 0 {
		m.unlock()
		return false
	}
	now := m.now()
	if m.current >= len(m.games) {
		m.current = 0
		m.shownAt = now
	}
	if m.shownAt.IsZero() {
		m.shownAt = now
	} else if now.Sub(m.shownAt) >= m.cfg.GameDuration {
		m.current = (m.current + 1) % len(m.games)
		m.shownAt = now
		forceClear = true
	}
	game := m.games[m.current]
	m.unlock()

	if forceClear {
		s.Clear()
	}
	display.DrawScoreboard(s, m.text, game)
	if err := s.Push(); err != nil {
		log.Printf("[%s/%s] push frame: %v", m.cfg.LeagueID, m.cfg.Mode, err)
		return false
	}
	return true
}
