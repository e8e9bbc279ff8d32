package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServerConfig holds the status API listen address
type ServerConfig struct {
	Addr string `json:"addr"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL      string `json:"url"`
	Password string `json:"password"`
}

// DisplayConfig describes the physical pixel grid
type DisplayConfig struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Brightness int    `json:"brightness"`
	FrameDir   string `json:"frame_dir"` // where the file sink writes frames; empty = discard
}

// MQTTConfig holds broker connection settings for the notifications plugin
type MQTTConfig struct {
	Host      string   `json:"host"`
	Port      int      `json:"port"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	ClientID  string   `json:"client_id"`
	Keepalive int      `json:"keepalive"`
	Topics    []string `json:"topics"`
}

// Config is the full daemon configuration: fixed sections plus one
// nested section per plugin, decoded lazily by each plugin.
type Config struct {
	Server  ServerConfig               `json:"server"`
	Redis   RedisConfig                `json:"redis"`
	Display DisplayConfig              `json:"display"`
	MQTT    MQTTConfig                 `json:"mqtt"`
	Plugins map[string]json.RawMessage `json:"plugins"`
}

// Load reads a JSON config file and applies environment overrides for
// the connection-level settings.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decoding config: %w", err)
		}
	}

	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.MQTT.Host = getEnv("MQTT_HOST", cfg.MQTT.Host)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Redis:   RedisConfig{URL: "redis://localhost:6379"},
		Display: DisplayConfig{Width: 64, Height: 32, Brightness: 128},
		MQTT: MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			ClientID:  "ledmatrix-sign",
			Keepalive: 60,
			Topics:    []string{"homeassistant/ledmatrix/+"},
		},
		Plugins: make(map[string]json.RawMessage),
	}
}

// Plugin decodes the named plugin section into v. A missing section
// leaves v untouched so plugins start from their own defaults.
func (c *Config) Plugin(name string, v interface{}) error {
	raw, ok := c.Plugins[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding plugin config %s: %w", name, err)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
