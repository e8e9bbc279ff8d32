package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// Orchestrator runs one polling goroutine per manager, each on its own
// ticker, all cancelled together through the context. This replaces
// per-update ad hoc threads: the set of goroutines is fixed at Start
// and bounded by the number of registered managers.
type Orchestrator struct {
	mu       sync.Mutex
	managers []contracts.Manager
}

// NewOrchestrator creates an empty orchestrator
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Add registers managers for background polling. Must be called before Start.
func (o *Orchestrator) Add(managers ...contracts.Manager) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.managers = append(o.managers, managers...)
}

// Start launches pollers for every registered manager and blocks until
// the context is cancelled and all pollers have stopped.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	managers := make([]contracts.Manager, len(o.managers))
	copy(managers, o.managers)
	o.mu.Unlock()

	log.Printf("[poller] starting %d manager pollers", len(managers))

	var wg sync.WaitGroup
	for _, m := range managers {
		wg.Add(1)
		go func(m contracts.Manager) {
			defer wg.Done()
			o.run(ctx, m)
		}(m)
	}

	wg.Wait()
	log.Println("[poller] all pollers stopped")
}

// run is one manager's polling loop
func (o *Orchestrator) run(ctx context.Context, m contracts.Manager) {
	name := m.LeagueID() + "/" + string(m.Mode())

	interval := m.PollInterval()
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	o.pollOnce(ctx, name, m)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] stopping poller", name)
			return
		case <-ticker.C:
			o.pollOnce(ctx, name, m)
		}
	}
}

func (o *Orchestrator) pollOnce(ctx context.Context, name string, m contracts.Manager) {
	if err := m.Update(ctx); err != nil {
		log.Printf("[%s] update: %v", name, err)
		return
	}
	log.Printf("[%s] %d games", name, len(m.Games()))
}
