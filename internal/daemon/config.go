// Package daemon holds the server's on-disk configuration.
package daemon

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/clickwar-arcade/clickwar/internal/app/game"
)

// Config is the full contents of config.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Game    GameConfig    `toml:"game"`
	Archive ArchiveConfig `toml:"archive"`
	Events  EventsConfig  `toml:"events"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	CORSOrigin string `toml:"cors_origin"`
}

// GameConfig holds match tuning. Durations are strings like "30s".
type GameConfig struct {
	WarmupDuration     string  `toml:"warmup_duration"`
	ThresholdPerPlayer float64 `toml:"threshold_per_player"`
	IdleTimeout        string  `toml:"idle_timeout"`
	EmptyTeamReset     string  `toml:"empty_team_reset"`
	PassiveInterval    string  `toml:"passive_interval"`
	MaxNameLength      int     `toml:"max_name_length"`
}

// ArchiveConfig controls the finished-match history database.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // directory; empty means the clickwar home
}

// EventsConfig controls the optional NATS event feed.
type EventsConfig struct {
	NATSURL       string `toml:"nats_url"` // empty disables publishing
	SubjectPrefix string `toml:"subject_prefix"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:       "127.0.0.1",
			Port:       3001,
			CORSOrigin: "*",
		},
		Game: GameConfig{
			WarmupDuration:     "30s",
			ThresholdPerPlayer: 2000,
			IdleTimeout:        "5s",
			EmptyTeamReset:     "15s",
			PassiveInterval:    "1s",
			MaxNameLength:      32,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
		Events: EventsConfig{
			SubjectPrefix: "clickwar",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Home returns the clickwar data directory: $CLICKWAR_HOME or ~/.clickwar.
func Home() string {
	if env := os.Getenv("CLICKWAR_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".clickwar")
}

// ConfigPath returns the default location of config.toml.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// Environment variables (optionally from a .env file in the working
// directory) override whatever the file says.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	if path == "" {
		path = ConfigPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = Home()
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CLICKWAR_HOST"); v != "" {
		c.API.Host = v
	}
	if v := os.Getenv("CLICKWAR_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("CLICKWAR_PORT: invalid port %q", v)
		}
		c.API.Port = port
	}
	if v := os.Getenv("CLICKWAR_NATS_URL"); v != "" {
		c.Events.NATSURL = v
	}
	return nil
}

// Addr returns the listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Engine converts the [game] section into engine settings. Unparseable or
// non-positive values fall back to the defaults.
func (g GameConfig) Engine() game.Config {
	def := game.DefaultConfig()
	cfg := game.Config{
		WarmupDuration:     parseDuration(g.WarmupDuration, def.WarmupDuration),
		ThresholdPerPlayer: g.ThresholdPerPlayer,
		IdleTimeout:        parseDuration(g.IdleTimeout, def.IdleTimeout),
		EmptyTeamReset:     parseDuration(g.EmptyTeamReset, def.EmptyTeamReset),
		PassiveInterval:    parseDuration(g.PassiveInterval, def.PassiveInterval),
		MaxNameLength:      g.MaxNameLength,
	}
	if cfg.ThresholdPerPlayer <= 0 {
		cfg.ThresholdPerPlayer = def.ThresholdPerPlayer
	}
	if cfg.MaxNameLength <= 0 {
		cfg.MaxNameLength = def.MaxNameLength
	}
	return cfg
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid duration %q, using %s", s, fallback)
		return fallback
	}
	return d
}
