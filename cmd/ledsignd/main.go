package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/api"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/cache"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/config"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/controller"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/hub"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/mqtt"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/baseball"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/calendar"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/f1"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/hockey"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/olympics"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/scoreboard"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/soccer"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/plugins/stocks"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/poller"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/espn"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/gcal"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/jolpi"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/openf1"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/providers/yahoorss"
	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/publisher"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
)

func main() {
	log.Println("Starting LED Matrix Sign...")

	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	// Redis is optional: the sign still works from live polls, just
	// without cache degradation or stream publishing.
	var cacheWriter *cache.Writer
	var streamPublisher *publisher.StreamPublisher
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	} else {
		log.Println("Connected to Redis")
		cacheWriter = cache.NewWriter(redisClient)
		streamPublisher = publisher.NewStreamPublisher(redisClient)
	}

	// The render surface: a file sink when frame_dir is set, otherwise
	// frames are discarded (useful for headless runs and tests).
	var sink display.Sink
	if cfg.Display.FrameDir != "" {
		fileSink, err := display.NewFileSink(cfg.Display.FrameDir)
		if err != nil {
			log.Fatalf("Failed to create frame sink: %v", err)
		}
		sink = fileSink
	}
	surface, err := display.NewMatrix(cfg.Display.Width, cfg.Display.Height, sink)
	if err != nil {
		log.Fatalf("Failed to create display surface: %v", err)
	}
	text, err := display.NewTextRenderer()
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	plugins, managers, pollables := buildPlugins(ctx, cfg, cacheWriter, surface, text)

	// Background pollers keep every manager's game list fresh.
	orch := poller.NewOrchestrator()
	orch.Add(managers...)
	go orch.Start(ctx)
	for _, p := range pollables {
		go pollLoop(ctx, p)
	}

	// Websocket hub for the live preview.
	h := hub.New()
	go h.Run(ctx)

	ctrl := controller.New(plugins,
		controller.WithPublisher(streamPublisher),
		controller.WithHub(h),
		controller.WithIdleScreen(surface, text),
	)
	go ctrl.Run(ctx)

	// Status API.
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewServer(plugins, h).Router(),
	}
	go func() {
		log.Printf("Status API listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
	log.Println("LED Matrix Sign stopped")
}

// pollable is a plugin that refreshes itself rather than through
// per-league managers.
type pollable interface {
	contracts.Plugin
	PollInterval() time.Duration
}

// buildPlugins constructs every configured plugin and collects the
// league managers for the background poller.
func buildPlugins(ctx context.Context, cfg *config.Config, cacheWriter *cache.Writer, surface contracts.Surface, text *display.TextRenderer) ([]contracts.Plugin, []contracts.Manager, []pollable) {
	espnClient := espn.New()
	deps := scoreboard.Deps{
		Client:  espnClient,
		Text:    text,
		Surface: surface,
	}
	if cacheWriter != nil {
		deps.Cache = cacheWriter
	}

	var plugins []contracts.Plugin
	var managers []contracts.Manager
	var pollables []pollable

	loadCfg := func(name string, v interface{}) bool {
		if err := cfg.Plugin(name, v); err != nil {
			log.Printf("Skipping plugin %s: %v", name, err)
			return false
		}
		return true
	}

	var hockeyCfg scoreboard.Config
	if loadCfg("hockey", &hockeyCfg) {
		p := hockey.New(hockeyCfg, deps)
		plugins = append(plugins, p)
		managers = append(managers, p.Managers()...)
	}

	var soccerCfg scoreboard.Config
	if loadCfg("soccer", &soccerCfg) {
		p := soccer.New(soccerCfg, deps)
		plugins = append(plugins, p)
		managers = append(managers, p.Managers()...)
	}

	var baseballCfg scoreboard.Config
	if loadCfg("baseball", &baseballCfg) {
		p := baseball.New(baseballCfg, deps)
		plugins = append(plugins, p)
		managers = append(managers, p.Managers()...)
	}

	var f1Cfg f1.Config
	if loadCfg("f1", &f1Cfg) {
		p := f1.New(f1Cfg, f1.Deps{
			Scoreboard: deps,
			Jolpi:      jolpi.New(),
			OpenF1:     openf1.New(),
			Cache:      cacheWriter,
		})
		plugins = append(plugins, p)
		managers = append(managers, p.Managers()...)
		pollables = append(pollables, p)
	}

	var stocksCfg stocks.Config
	if loadCfg("stocks", &stocksCfg) {
		p := stocks.New(stocksCfg, yahoorss.New(), cacheWriter, surface, text)
		plugins = append(plugins, p)
		pollables = append(pollables, p)
	}

	var calCfg calendar.Config
	if loadCfg("calendar", &calCfg) {
		token := os.Getenv("GCAL_ACCESS_TOKEN")
		p := calendar.New(calCfg, gcal.New(token), cacheWriter, surface, text)
		plugins = append(plugins, p)
		pollables = append(pollables, p)
	}

	var olyCfg olympics.Config
	if loadCfg("olympics", &olyCfg) {
		p := olympics.New(olyCfg, cacheWriter, surface, text)
		plugins = append(plugins, p)
		pollables = append(pollables, p)
	}

	// MQTT notifications: push-driven, no poll loop.
	if len(cfg.MQTT.Topics) > 0 {
		manager := mqtt.NewManager(mqtt.Config{
			Host:     fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port),
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topics:   cfg.MQTT.Topics,
		}, text)
		if err := manager.Connect(ctx); err != nil {
			log.Printf("MQTT unavailable, notifications disabled: %v", err)
		} else {
			plugins = append(plugins, mqtt.NewPlugin(manager, surface, true))
		}
	}

	return plugins, managers, pollables
}

// pollLoop refreshes a self-polling plugin on its interval.
func pollLoop(ctx context.Context, p pollable) {
	p.Update(ctx)
	ticker := time.NewTicker(p.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Update(ctx)
		}
	}
}
