package registry

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// LeagueEntry describes one league known to a plugin: whether it is
// enabled, where it sorts in the rotation, and which manager serves
// each mode type. Built once at startup; only Enabled may be toggled
// afterwards (config reload).
type LeagueEntry struct {
	ID           string
	Enabled      bool
	Priority     int // lower = shown first
	LivePriority bool
	Managers     map[contracts.ModeType]contracts.Manager
	ModeFlags    map[contracts.ModeType]bool // per-league per-mode display flag
}

// modeEnabled defaults to true when a mode has no explicit flag
func (e *LeagueEntry) modeEnabled(mode contracts.ModeType) bool {
	if e.ModeFlags == nil {
		return true
	}
	v, ok := e.ModeFlags[mode]
	if !ok {
		return true
	}
	return v
}

// Registry is the static league table a plugin builds at startup.
type Registry struct {
	mu      sync.RWMutex
	leagues map[string]*LeagueEntry
}

// New creates an empty league registry
func New() *Registry {
	return &Registry{leagues: make(map[string]*LeagueEntry)}
}

// Register adds a league entry. Registering the same ID twice replaces
// the earlier entry.
func (r *Registry) Register(entry *LeagueEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.Managers == nil {
		entry.Managers = make(map[contracts.ModeType]contracts.Manager)
	}
	r.leagues[entry.ID] = entry
}

// Entry retrieves a league entry by ID
func (r *Registry) Entry(leagueID string) (*LeagueEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.leagues[leagueID]
	if !ok {
		return nil, fmt.Errorf("league not registered: %s", leagueID)
	}
	return entry, nil
}

// SetEnabled toggles a league on or off at runtime
func (r *Registry) SetEnabled(leagueID string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.leagues[leagueID]; ok {
		entry.Enabled = enabled
		log.Printf("[registry] league %s enabled=%v", leagueID, enabled)
	}
}

// EnabledLeagues returns league IDs for a mode type, sorted ascending by
// priority, filtered to leagues that are enabled and have the mode's
// display flag set. An unknown mode type yields an empty list.
func (r *Registry) EnabledLeagues(mode contracts.ModeType) []string {
	if _, ok := contracts.ParseModeType(string(mode)); !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, entry := range r.leagues {
		if !entry.Enabled {
			continue
		}
		if !entry.modeEnabled(mode) {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		pi, pj := r.leagues[ids[i]].Priority, r.leagues[ids[j]].Priority
		if pi != pj {
			return pi < pj
		}
		return ids[i] < ids[j]
	})

	return ids
}

// ManagerFor returns the manager serving a league and mode type, or nil
// when the league has none for that mode.
func (r *Registry) ManagerFor(leagueID string, mode contracts.ModeType) contracts.Manager {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.leagues[leagueID]
	if !ok {
		return nil
	}
	return entry.Managers[mode]
}

// LivePriority reports whether a league has live priority enabled
func (r *Registry) LivePriority(leagueID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.leagues[leagueID]
	return ok && entry.LivePriority
}

// AllLeagueIDs returns every registered league ID, unsorted
func (r *Registry) AllLeagueIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.leagues))
	for id := range r.leagues {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered leagues
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leagues)
}
