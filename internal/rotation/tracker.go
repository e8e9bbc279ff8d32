package rotation

import (
	"log"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// modeProgress is all rotation state for one display mode: which
// manager is owed the screen, which managers have been used this lap,
// and per-game first-seen timestamps.
type modeProgress struct {
	sticky    contracts.Manager
	startedAt time.Time

	used      map[string]contracts.Manager // managerKey -> manager
	completed map[string]struct{}
	durations map[string]time.Duration // per-game duration captured at first sight

	singleStart map[string]time.Time               // managerKey -> first seen (<=1 game)
	gameStart   map[string]map[string]time.Time    // managerKey -> gameID -> first seen
	gameDone    map[string]map[string]struct{}     // managerKey -> game IDs held for full duration
}

func newModeProgress(now time.Time) *modeProgress {
	return &modeProgress{
		startedAt:   now,
		used:        make(map[string]contracts.Manager),
		completed:   make(map[string]struct{}),
		durations:   make(map[string]time.Duration),
		singleStart: make(map[string]time.Time),
		gameStart:   make(map[string]map[string]time.Time),
		gameDone:    make(map[string]map[string]struct{}),
	}
}

// BeginCycle starts a fresh rotation lap for a display mode, clearing
// any progress from the previous lap. The controller calls this when it
// switches the sign to the mode; the scheduler never infers lap
// boundaries from timing gaps.
func (s *Scheduler) BeginCycle(displayMode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[displayMode] = newModeProgress(s.now())
	log.Printf("[rotation] new cycle for %s", displayMode)
}

// ResetCycle discards all tracked state for a display mode
func (s *Scheduler) ResetCycle(displayMode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, displayMode)
}

// Sticky returns the manager currently owed the screen for a display
// mode, or nil when none is set.
func (s *Scheduler) Sticky(displayMode string) contracts.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prog, ok := s.state[displayMode]; ok {
		return prog.sticky
	}
	return nil
}

// RecordProgress notes that a manager just held the screen for a
// display mode. Managers reporting at most one game are tracked by wall
// clock from first sight; managers with several games track each game
// ID individually and complete only once every currently reported ID
// has been held for the full per-game duration. Game IDs that drop out
// of the reported list stop counting against completion.
func (s *Scheduler) RecordProgress(displayMode string, m contracts.Manager) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prog, ok := s.state[displayMode]
	if !ok {
		prog = newModeProgress(s.now())
		s.state[displayMode] = prog
	}

	key := managerKey(m)
	prog.used[key] = m

	duration := s.durations.For(m.LeagueID(), m.Mode(), m)
	prog.durations[key] = duration

	if prog.sticky == nil {
		prog.sticky = m
	}

	games := m.Games()
	now := s.now()

	if len(games) <= 1 {
		s.trackSingle(prog, key, duration, now)
		return
	}

	current, ok := m.CurrentGame()
	if !ok {
		// Nothing on screen yet; still counts as the mode being seen.
		return
	}

	starts := prog.gameStart[key]
	if starts == nil {
		starts = make(map[string]time.Time)
		prog.gameStart[key] = starts
	}
	done := prog.gameDone[key]
	if done == nil {
		done = make(map[string]struct{})
		prog.gameDone[key] = done
	}

	if _, seen := starts[current.ID]; !seen {
		starts[current.ID] = now
	}
	if now.Sub(starts[current.ID]) >= duration {
		if _, already := done[current.ID]; !already {
			done[current.ID] = struct{}{}
			log.Printf("[rotation] %s game %s@%s held full %s", key, current.AwayAbbr, current.HomeAbbr, duration)
		}
	}

	// Prune game IDs the manager no longer reports so a shrinking list
	// cannot block completion of the remaining ones.
	valid := make(map[string]struct{}, len(games))
	for _, g := range games {
		valid[g.ID] = struct{}{}
	}
	for id := range starts {
		if _, ok := valid[id]; !ok {
			delete(starts, id)
		}
	}
	for id := range done {
		if _, ok := valid[id]; !ok {
			delete(done, id)
		}
	}

	if allDone(valid, done) {
		if _, already := prog.completed[key]; !already {
			prog.completed[key] = struct{}{}
			log.Printf("[rotation] %s completed all %d games for %s", key, len(valid), displayMode)
		}
	}
}

// trackSingle handles the wall-clock path for managers with at most one game
func (s *Scheduler) trackSingle(prog *modeProgress, key string, duration time.Duration, now time.Time) {
	start, seen := prog.singleStart[key]
	if !seen {
		prog.singleStart[key] = now
		return
	}
	if now.Sub(start) >= duration {
		if _, already := prog.completed[key]; !already {
			prog.completed[key] = struct{}{}
			delete(prog.singleStart, key)
			log.Printf("[rotation] %s completed after %s", key, duration)
		}
	}
}

// allDone reports whether every ID in want is present in have
func allDone(want map[string]struct{}, have map[string]struct{}) bool {
	if len(want) == 0 {
		return false
	}
	for id := range want {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}
