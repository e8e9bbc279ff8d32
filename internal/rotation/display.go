package rotation

import (
	"context"
	"log"
	"strings"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// ParseDisplayMode splits a display mode name into its league and mode
// type. Granular names look like "nhl_recent" or "ncaa_mens_live";
// combined names ("live", or "hockey_live" where "hockey" is not a
// registered league) span every enabled league and return an empty
// league ID.
func (s *Scheduler) ParseDisplayMode(displayMode string) (leagueID string, mode contracts.ModeType, ok bool) {
	for _, suffix := range []string{"_live", "_recent", "_upcoming"} {
		if !strings.HasSuffix(displayMode, suffix) {
			continue
		}
		mt, _ := contracts.ParseModeType(suffix[1:])
		league := strings.TrimSuffix(displayMode, suffix)
		if _, err := s.registry.Entry(league); err == nil {
			return league, mt, true
		}
		// Unknown league prefix: treat as a combined mode spanning leagues.
		return "", mt, true
	}
	if mt, valid := contracts.ParseModeType(displayMode); valid {
		return "", mt, true
	}
	return "", "", false
}

// Display renders one frame for a display mode. It resolves a manager,
// delegates rendering, records progress, and reports whether content
// was shown. Invalid mode names and empty league sets report false
// rather than erroring.
func (s *Scheduler) Display(ctx context.Context, displayMode string, surface contracts.Surface, forceClear bool) bool {
	leagueID, mode, ok := s.ParseDisplayMode(displayMode)
	if !ok {
		log.Printf("[rotation] invalid display mode %q", displayMode)
		return false
	}

	if leagueID != "" {
		return s.displayLeague(displayMode, leagueID, mode, surface, forceClear)
	}

	managers := s.ResolveManagers(ctx, mode)
	if len(managers) == 0 {
		return false
	}
	managers = s.applySticky(displayMode, managers)

	// Prefer managers that have not finished their block this lap, so the
	// rotation walks leagues in priority order exactly once.
	for _, m := range managers {
		if s.isManagerComplete(displayMode, managerKey(m)) {
			continue
		}
		if s.tryManager(displayMode, m, surface, forceClear) {
			return true
		}
	}
	for _, m := range managers {
		if s.tryManager(displayMode, m, surface, forceClear) {
			return true
		}
	}
	return false
}

// displayLeague handles a granular "<league>_<mode>" display mode
func (s *Scheduler) displayLeague(displayMode, leagueID string, mode contracts.ModeType, surface contracts.Surface, forceClear bool) bool {
	entry, err := s.registry.Entry(leagueID)
	if err != nil || !entry.Enabled {
		return false
	}
	m := s.registry.ManagerFor(leagueID, mode)
	if m == nil {
		return false
	}
	return s.tryManager(displayMode, m, surface, forceClear)
}

// tryManager renders via one manager and records progress on success
func (s *Scheduler) tryManager(displayMode string, m contracts.Manager, surface contracts.Surface, forceClear bool) bool {
	if !m.Display(surface, forceClear) {
		return false
	}
	s.RecordProgress(displayMode, m)
	return true
}
