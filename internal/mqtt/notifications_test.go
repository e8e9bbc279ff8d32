package mqtt

import (
	"testing"
	"time"
)

func TestEnqueue_NewestFirstAndBounded(t *testing.T) {
	m := NewManager(Config{MaxQueue: 3}, nil)

	for _, text := range []string{"one", "two", "three", "four"} {
		m.Enqueue("home/test", text)
	}

	pending := m.Pending()
	if len(pending) != 3 {
		t.Fatalf("expected queue bounded at 3, got %d", len(pending))
	}
	if pending[0].Text != "four" {
		t.Errorf("expected newest first, got %s", pending[0].Text)
	}
	if pending[2].Text != "two" {
		t.Errorf("expected oldest surviving entry last, got %s", pending[2].Text)
	}
}

func TestPending_PrunesExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m := NewManager(Config{TTL: time.Minute}, nil)
	m.now = func() time.Time { return now }

	m.Enqueue("home/a", "early")
	now = now.Add(50 * time.Second)
	m.Enqueue("home/b", "late")
	now = now.Add(30 * time.Second)

	pending := m.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 unexpired notification, got %d", len(pending))
	}
	if pending[0].Text != "late" {
		t.Errorf("expected the late message, got %s", pending[0].Text)
	}
}

func TestShortTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"homeassistant/ledmatrix/doorbell", "doorbell"},
		{"doorbell", "doorbell"},
		{"home/", "home/"},
	}
	for _, tt := range tests {
		if got := shortTopic(tt.topic); got != tt.want {
			t.Errorf("shortTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}
