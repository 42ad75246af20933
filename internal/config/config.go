// Package config loads server configuration from the environment (with
// optional .env file) and command-line flags. Flags win over the environment.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string `env:"RUN_ADDRESS"    envDefault:"localhost:8080"`
	DBPath   string `env:"SQLITE_DB_PATH" envDefault:"./data/habitledger.db"`
	LogLevel string `env:"LOG_LEVEL"      envDefault:"info"`
}

type Builder struct {
	cfg *Config
}

func NewBuilder() *Builder {
	return &Builder{cfg: &Config{}}
}

// FromEnv reads a .env file if present, then parses the environment.
func (b *Builder) FromEnv() *Builder {
	// Missing .env is fine; the environment alone is a valid source
	_ = godotenv.Load()
	if err := env.Parse(b.cfg); err != nil {
		slog.Error("Failed to parse config from environment", "error", err)
	}
	return b
}

// FromFlags overlays command-line flags on the current values.
func (b *Builder) FromFlags() *Builder {
	flag.StringVar(&b.cfg.Addr, "a", b.cfg.Addr, "Listen address")
	flag.StringVar(&b.cfg.DBPath, "d", b.cfg.DBPath, "SQLite database path")
	flag.StringVar(&b.cfg.LogLevel, "l", b.cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.Parse()
	return b
}

func (b *Builder) Config() *Config {
	return b.cfg
}

// Validate checks the configuration, collecting every problem found.
func (c *Config) Validate() error {
	var problems []string

	_, port, ok := strings.Cut(c.Addr, ":")
	if !ok {
		problems = append(problems, fmt.Sprintf("invalid address %q: missing port", c.Addr))
	} else if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be 1-65535", port))
	}

	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "database path must not be empty")
	}

	if _, err := c.level(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level, defaulting to
// Info when the name is unknown.
func (c *Config) SlogLevel() slog.Level {
	lvl, err := c.level()
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
