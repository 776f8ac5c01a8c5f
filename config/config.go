// Package config loads service configuration from YAML and builds the
// pieces an embedding program needs: cache.Options and a slog.Logger.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/memkv/memkv/cache"
)

// Duration accepts YAML durations written either as Go duration strings
// ("5s", "1h30m") or as plain integer seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
//
// Integer seconds are tried first: the YAML decoder coerces bare numbers
// into strings, so the other order would feed "120" to ParseDuration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var secs int64
	if err := node.Decode(&secs); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration: %q", node.Value)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// CacheConfig tunes the engine.
type CacheConfig struct {
	DefaultTTL        Duration `yaml:"default_ttl"`
	MaxMemoryMB       float64  `yaml:"max_memory_mb"`
	EvictionPolicy    string   `yaml:"eviction_policy"`
	MaxChecksPerCycle int      `yaml:"max_checks_per_cycle"`
	MemoryStatistics  bool     `yaml:"memory_statistics"`
	ReapInterval      Duration `yaml:"reap_interval"`
}

// LogConfig tunes the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Config is the root of the YAML document.
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	s := cache.DefaultSettings()
	return Config{
		Cache: CacheConfig{
			DefaultTTL:        Duration(s.DefaultTTL),
			MaxMemoryMB:       s.MaxMemoryMB,
			EvictionPolicy:    s.Policy,
			MaxChecksPerCycle: s.MaxChecksPerCycle,
			ReapInterval:      Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path and merges it over the defaults, so a
// partial file only overrides the keys it names.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// CacheOptions converts the file values into engine options, logger
// included.
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Settings: cache.Settings{
			DefaultTTL:        c.Cache.DefaultTTL.Std(),
			MaxMemoryMB:       c.Cache.MaxMemoryMB,
			Policy:            c.Cache.EvictionPolicy,
			MaxChecksPerCycle: c.Cache.MaxChecksPerCycle,
			MemoryStatistics:  c.Cache.MemoryStatistics,
		},
		ReapInterval: c.Cache.ReapInterval.Std(),
		Logger:       c.NewLogger(),
	}
}

// NewLogger builds a slog.Logger from the log section. Unknown levels
// fall back to info, unknown formats to text.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}

	var h slog.Handler
	switch c.Log.Format {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
