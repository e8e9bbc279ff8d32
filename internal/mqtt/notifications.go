package mqtt

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

// Notification is a single message received from the broker, held on
// screen until it expires or newer messages push it out.
type Notification struct {
	ID         string
	Topic      string
	Text       string
	ReceivedAt time.Time
	ExpiresAt  time.Time
}

// Config controls the broker connection and queue behavior.
type Config struct {
	Host     string
	Username string
	Password string
	// Topics are subscribe filters; + and # wildcards are allowed.
	Topics []string
	// TTL is how long a notification stays displayable. Zero means 5 minutes.
	TTL time.Duration
	// MaxQueue bounds the retained notifications. Zero means 20.
	MaxQueue int
	// HoldDuration is how long each notification is held on screen.
	HoldDuration time.Duration
}

// Manager subscribes to the broker and maintains a bounded queue of
// unexpired notifications, newest first.
type Manager struct {
	cfg    Config
	client pahomqtt.Client
	text   *display.TextRenderer

	mu    sync.Mutex
	queue []Notification

	now func() time.Time
}

// NewManager builds the notification manager. Connect must be called
// before messages arrive.
func NewManager(cfg Config, text *display.TextRenderer) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = 20
	}
	if cfg.HoldDuration <= 0 {
		cfg.HoldDuration = 10 * time.Second
	}
	return &Manager{cfg: cfg, text: text, now: time.Now}
}

// Connect dials the broker and subscribes to the configured topic
// filters. The paho client reconnects on its own after broker drops.
func (m *Manager) Connect(ctx context.Context) error {
	opts := pahomqtt.NewClientOptions().
		AddBroker(m.cfg.Host).
		SetClientID("ledsignd-" + uuid.New().String()[:8]).
		SetUsername(m.cfg.Username).
		SetPassword(m.cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetOrderMatters(false)

	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		for _, topic := range m.cfg.Topics {
			t := topic
			if tok := c.Subscribe(t, 0, m.onMessage); tok.Wait() && tok.Error() != nil {
				log.Printf("[mqtt] subscribe %s failed: %v", t, tok.Error())
			} else {
				log.Printf("[mqtt] subscribed to %s", t)
			}
		}
	})
	opts.SetConnectionLostHandler(func(c pahomqtt.Client, err error) {
		log.Printf("[mqtt] connection lost: %v", err)
	})

	m.client = pahomqtt.NewClient(opts)
	tok := m.client.Connect()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tokenDone(tok):
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", m.cfg.Host, err)
	}
	log.Printf("[mqtt] connected to %s", m.cfg.Host)
	return nil
}

// Close disconnects from the broker.
func (m *Manager) Close() {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
	}
}

func tokenDone(tok pahomqtt.Token) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		tok.Wait()
		close(ch)
	}()
	return ch
}

func (m *Manager) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	text := strings.TrimSpace(string(msg.Payload()))
	if text == "" {
		return
	}
	m.Enqueue(msg.Topic(), text)
}

// Enqueue adds a notification; exported so tests and local sources can
// feed the queue without a broker.
func (m *Manager) Enqueue(topic, text string) {
	now := m.now()
	n := Notification{
		ID:         uuid.New().String(),
		Topic:      topic,
		Text:       text,
		ReceivedAt: now,
		ExpiresAt:  now.Add(m.cfg.TTL),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append([]Notification{n}, m.queue...)
	if len(m.queue) > m.cfg.MaxQueue {
		m.queue = m.queue[:m.cfg.MaxQueue]
	}
}

// Pending returns the unexpired notifications, newest first, pruning
// expired entries as a side effect.
func (m *Manager) Pending() []Notification {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.queue[:0]
	for _, n := range m.queue {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	m.queue = kept
	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

// Display renders the newest unexpired notification. Returns false
// when the queue is empty so the rotation moves on.
func (m *Manager) Display(s contracts.Surface, forceClear bool) bool {
	pending := m.Pending()
	if len(pending) == 0 {
		return false
	}
	if forceClear {
		s.Clear()
	}
	n := pending[0]
	display.DrawLines(s, m.text, []string{shortTopic(n.Topic), n.Text}, 2)
	if err := s.Push(); err != nil {
		log.Printf("[mqtt] push frame: %v", err)
		return false
	}
	return true
}

// shortTopic keeps only the last topic segment for the header line.
func shortTopic(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 && i < len(topic)-1 {
		return topic[i+1:]
	}
	return topic
}
