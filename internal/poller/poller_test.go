package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

type fakeManager struct {
	league  string
	mode    contracts.ModeType
	updates atomic.Int64
}

func (f *fakeManager) LeagueID() string                     { return f.league }
func (f *fakeManager) Mode() contracts.ModeType             { return f.mode }
func (f *fakeManager) Update(ctx context.Context) error     { f.updates.Add(1); return nil }
func (f *fakeManager) Games() []models.Game                 { return nil }
func (f *fakeManager) CurrentGame() (models.Game, bool)     { return models.Game{}, false }
func (f *fakeManager) GameDisplayDuration() time.Duration   { return time.Second }
func (f *fakeManager) PollInterval() time.Duration          { return 5 * time.Millisecond }
func (f *fakeManager) Display(contracts.Surface, bool) bool { return false }

func TestStart_PollsEveryManagerAndStopsOnCancel(t *testing.T) {
	a := &fakeManager{league: "nhl", mode: contracts.ModeLive}
	b := &fakeManager{league: "mlb", mode: contracts.ModeRecent}

	o := NewOrchestrator()
	o.Add(a, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for a.updates.Load() < 2 || b.updates.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("managers were not polled on their intervals")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestStart_NoManagersReturnsImmediately(t *testing.T) {
	o := NewOrchestrator()
	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start with no managers should return without waiting")
	}
}
