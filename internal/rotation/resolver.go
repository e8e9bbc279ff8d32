package rotation

import (
	"context"
	"log"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

// ResolveManagers returns the ordered list of managers to try for a
// mode type.
//
// For live mode it first refreshes every enabled league's live manager,
// then includes only managers whose league has live priority and at
// least one non-final live game (restricted to favorite teams when
// configured). If that filter yields nothing, it falls back to all
// enabled live managers so the screen never goes dark just because no
// favorite is playing.
//
// Recent and upcoming modes return one manager per enabled league in
// priority order, unfiltered by content.
func (s *Scheduler) ResolveManagers(ctx context.Context, mode contracts.ModeType) []contracts.Manager {
	leagues := s.registry.EnabledLeagues(mode)
	if len(leagues) == 0 {
		return nil
	}

	if mode != contracts.ModeLive {
		var managers []contracts.Manager
		for _, id := range leagues {
			if m := s.registry.ManagerFor(id, mode); m != nil {
				managers = append(managers, m)
			}
		}
		return managers
	}

	// Live mode: refresh first so the live-content check sees current data.
	for _, id := range leagues {
		m := s.registry.ManagerFor(id, contracts.ModeLive)
		if m == nil {
			continue
		}
		if err := m.Update(ctx); err != nil {
			log.Printf("[rotation] %s live update: %v", id, err)
		}
	}

	var managers []contracts.Manager
	for _, id := range leagues {
		m := s.registry.ManagerFor(id, contracts.ModeLive)
		if m == nil {
			continue
		}
		if s.registry.LivePriority(id) {
			if s.hasLiveContent(m) {
				managers = append(managers, m)
			}
			continue
		}
		managers = append(managers, m)
	}

	if len(managers) == 0 {
		// No live-priority league has content; fall back to everything enabled.
		for _, id := range leagues {
			if m := s.registry.ManagerFor(id, contracts.ModeLive); m != nil {
				managers = append(managers, m)
			}
		}
	}

	return managers
}

// hasLiveContent reports whether a manager has at least one non-final
// live game, restricted to favorite teams when any are configured for
// its league.
func (s *Scheduler) hasLiveContent(m contracts.Manager) bool {
	var live []models.Game
	for _, g := range m.Games() {
		if g.IsLive() && !g.IsFinal() {
			live = append(live, g)
		}
	}
	if len(live) == 0 {
		return false
	}

	favorites := s.favorites[m.LeagueID()]
	if len(favorites) == 0 {
		return true
	}
	for _, g := range live {
		if g.Involves(favorites) {
			return true
		}
	}
	return false
}

// applySticky restricts the candidate list to the sticky manager for a
// display mode when one is set and still available. A sticky manager
// that dropped out of the candidate list is cleared so a new one can be
// chosen in priority order.
func (s *Scheduler) applySticky(displayMode string, managers []contracts.Manager) []contracts.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()

	prog, ok := s.state[displayMode]
	if !ok || prog.sticky == nil {
		return managers
	}

	if _, done := prog.completed[managerKey(prog.sticky)]; done {
		// The sticky manager finished its block; release the screen so the
		// next league in priority order takes over.
		prog.sticky = nil
		return managers
	}

	for _, m := range managers {
		if m == prog.sticky {
			return []contracts.Manager{m}
		}
	}

	log.Printf("[rotation] sticky manager %s no longer available for %s", managerKey(prog.sticky), displayMode)
	prog.sticky = nil
	return managers
}
