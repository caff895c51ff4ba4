package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lucasb-eyer/go-colorful"
)

type Config struct {
	Protocol   string `koanf:"protocol"`   // "auto", "kitty", "sixel", "blocks" or "none"
	Background string `koanf:"background"` // canvas colour, e.g. "#ffffff"
	Icons      string `koanf:"icons"`      // "nerd", "unicode", or "none"

	Zoom    ZoomConfig    `koanf:"zoom"`
	Fetch   FetchConfig   `koanf:"fetch"`
	Cache   CacheConfig   `koanf:"cache"`
	History HistoryConfig `koanf:"history"`
	Log     LogConfig     `koanf:"log"`

	// Keys rebinds actions, e.g. next_image = ["n", "right"].
	Keys map[string][]string `koanf:"keys"`
}

// ZoomConfig holds the zoom limits of the canvas.
type ZoomConfig struct {
	Min  float64 `koanf:"min"`  // default: 0.2
	Max  float64 `koanf:"max"`  // default: 1.4
	Step float64 `koanf:"step"` // multiplier per zoom step (default: 1.1)
}

// FetchConfig holds remote and local resource loading limits.
type FetchConfig struct {
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 15
	MaxMB          int    `koanf:"max_mb"`          // largest accepted resource (default: 64)
	UserAgent      string `koanf:"user_agent"`
}

// CacheConfig holds the on-disk buffer cache settings.
type CacheConfig struct {
	Disk       *bool  `koanf:"disk"`         // default: true
	Dir        string `koanf:"dir"`          // default: $XDG_CACHE_HOME/imgview/buffers
	MaxAgeDays int    `koanf:"max_age_days"` // default: 30
}

// HistoryConfig holds view history settings.
type HistoryConfig struct {
	Size int `koanf:"size"` // entries kept (default: 100)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `koanf:"level"` // default: "info"
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/imgview/imgview.log
}

// envOverrides are applied on top of the config files.
type envOverrides struct {
	Protocol  string `env:"IMGVIEW_PROTOCOL"`
	LogLevel  string `env:"IMGVIEW_LOG_LEVEL"`
	LogFile   string `env:"IMGVIEW_LOG_FILE"`
	CacheDisk *bool  `env:"IMGVIEW_CACHE_DISK"`
}

// Load reads the config files, then .env and the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()
	return load(getConfigPaths(), nil)
}

// load reads paths in order (last wins) and applies environment overrides.
// A nil environ reads the process environment.
func load(paths []string, environ map[string]string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Protocol:   "auto",
		Background: "#ffffff",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	var ov envOverrides
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&ov, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	ov.apply(cfg)

	cfg.Protocol = strings.ToLower(strings.TrimSpace(cfg.Protocol))
	cfg.Cache.Dir = expandPath(cfg.Cache.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func (ov envOverrides) apply(cfg *Config) {
	if ov.Protocol != "" {
		cfg.Protocol = ov.Protocol
	}
	if ov.LogLevel != "" {
		cfg.Log.Level = ov.LogLevel
	}
	if ov.LogFile != "" {
		cfg.Log.File = ov.LogFile
	}
	if ov.CacheDisk != nil {
		cfg.Cache.Disk = ov.CacheDisk
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/imgview/config.toml
		filepath.Join(xdg.ConfigHome, "imgview", "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetZoomConfig returns the zoom limits with defaults applied.
func (c *Config) GetZoomConfig() ZoomConfig {
	cfg := c.Zoom
	if cfg.Min <= 0 {
		cfg.Min = 0.2
	}
	if cfg.Max <= cfg.Min {
		cfg.Max = max(1.4, cfg.Min*2)
	}
	if cfg.Step <= 1 {
		cfg.Step = 1.1
	}
	return cfg
}

// GetFetchConfig returns the fetch limits with defaults applied.
func (c *Config) GetFetchConfig() FetchConfig {
	cfg := c.Fetch
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}
	if cfg.MaxMB <= 0 {
		cfg.MaxMB = 64
	}
	return cfg
}

// Timeout returns the fetch timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// MaxBytes returns the largest accepted resource size in bytes.
func (f FetchConfig) MaxBytes() int64 {
	return int64(f.MaxMB) << 20
}

// DiskCacheEnabled reports whether extracted buffers are kept on disk.
func (c *Config) DiskCacheEnabled() bool {
	return c.Cache.Disk == nil || *c.Cache.Disk
}

// CacheMaxAge returns how long unused disk cache entries are kept.
func (c *Config) CacheMaxAge() time.Duration {
	days := c.Cache.MaxAgeDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// HistorySize returns the number of view history entries kept.
func (c *Config) HistorySize() int {
	if c.History.Size <= 0 {
		return 100
	}
	return c.History.Size
}

// BackgroundColor parses the canvas background, falling back to white.
func (c *Config) BackgroundColor() color.Color {
	if bg, err := colorful.Hex(c.Background); err == nil {
		return bg.Clamped()
	}
	return color.White
}
