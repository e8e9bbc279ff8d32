package rotation

import "sort"

// IsCycleComplete reports whether every manager ever used for a display
// mode this lap has completed. No manager used yet means the lap has
// not finished. Managers whose configured duration elapsed since the
// last RecordProgress call are completed here rather than waiting for
// another display pass.
func (s *Scheduler) IsCycleComplete(displayMode string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prog, ok := s.state[displayMode]
	if !ok || len(prog.used) == 0 {
		return false
	}

	now := s.now()

	for key, m := range prog.used {
		if _, done := prog.completed[key]; done {
			continue
		}

		duration := prog.durations[key]

		if len(m.Games()) <= 1 {
			if start, seen := prog.singleStart[key]; seen && now.Sub(start) >= duration {
				prog.completed[key] = struct{}{}
				delete(prog.singleStart, key)
				continue
			}
			return false
		}

		// Multi-game manager: re-check against the current game list so a
		// game finishing its duration since the last display pass counts.
		starts := prog.gameStart[key]
		done := prog.gameDone[key]
		if done == nil {
			return false
		}
		valid := make(map[string]struct{})
		for _, g := range m.Games() {
			valid[g.ID] = struct{}{}
		}
		for id, start := range starts {
			if _, ok := valid[id]; !ok {
				continue
			}
			if now.Sub(start) >= duration {
				done[id] = struct{}{}
			}
		}
		if !allDone(valid, done) {
			return false
		}
		prog.completed[key] = struct{}{}
	}

	return true
}

// CompletedManagers returns the manager keys completed this lap for a
// mode, sorted, for the status API.
func (s *Scheduler) CompletedManagers(displayMode string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prog, ok := s.state[displayMode]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(prog.completed))
	for k := range prog.completed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isManagerComplete reports whether a specific manager key has completed
// for a display mode.
func (s *Scheduler) isManagerComplete(displayMode, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prog, ok := s.state[displayMode]
	if !ok {
		return false
	}
	_, done := prog.completed[key]
	return done
}
