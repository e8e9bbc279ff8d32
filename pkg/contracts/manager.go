package contracts

import (
	"context"
	"image"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

// ModeType is one of the three display mode families every league supports
type ModeType string

const (
	ModeLive     ModeType = "live"
	ModeRecent   ModeType = "recent"
	ModeUpcoming ModeType = "upcoming"
)

// ParseModeType validates a mode type string
func ParseModeType(s string) (ModeType, bool) {
	switch ModeType(s) {
	case ModeLive, ModeRecent, ModeUpcoming:
		return ModeType(s), true
	}
	return "", false
}

// Surface is the shared drawing target managers render into.
// The daemon owns exactly one surface; managers draw a full frame
// and push it to the sink.
type Surface interface {
	Bounds() image.Rectangle
	Frame() *image.RGBA
	Clear()
	Push() error
}

// Manager owns the game list for one league in one mode. It refreshes
// the list from the network on Update and renders the current game on
// Display. The rotation scheduler never fetches data itself.
//
// LeagueID is explicit here rather than inferred from a type name so the
// registry can identify managers without reflection.
type Manager interface {
	LeagueID() string
	Mode() ModeType

	// Update refreshes the manager's game list. Errors are returned for
	// logging but a manager keeps serving its last cached list.
	Update(ctx context.Context) error

	// Display renders the current game to the surface. It reports whether
	// content was shown and never propagates network errors.
	Display(s Surface, forceClear bool) bool

	// Games returns the full list reported by the last poll.
	Games() []models.Game

	// CurrentGame returns the game currently on screen, if any.
	CurrentGame() (models.Game, bool)

	// GameDisplayDuration is how long a single game holds the screen.
	GameDisplayDuration() time.Duration

	// PollInterval is how often the background poller calls Update.
	PollInterval() time.Duration
}

// Plugin is the external contract consumed by the display controller.
type Plugin interface {
	ID() string
	Enabled() bool

	// DisplayModes lists the mode names the controller may rotate through.
	DisplayModes() []string

	// BeginCycle tells the plugin the controller is starting a fresh
	// rotation lap for the given display mode.
	BeginCycle(displayMode string)

	// Display renders one frame for the mode and reports whether content
	// was shown. It never returns an error to the controller.
	Display(ctx context.Context, displayMode string, forceClear bool) bool

	// IsCycleComplete reports whether every league and game for the mode
	// has held the screen for its full duration.
	IsCycleComplete(displayMode string) bool

	// Update refreshes all of the plugin's managers once.
	Update(ctx context.Context)

	// Info returns a diagnostic snapshot for the status API.
	Info() map[string]interface{}
}
