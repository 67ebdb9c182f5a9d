// config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port           string   `yaml:"port"`
	CSRFKey        string   `yaml:"csrf_key"` // 32 bytes; empty disables form CSRF protection
	SecureCookies  bool     `yaml:"secure_cookies"`
	TrustedOrigins []string `yaml:"trusted_origins"`
}

type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutStr     string        `yaml:"timeout"`
	RoutesPagePath string        `yaml:"routes_page_path"` // server-rendered page holding #routes-table
	SessionID      string        `yaml:"session_id"`       // optional sessionid cookie for authenticated mutations
	Timeout        time.Duration `yaml:"-"`                // Parsed duration
}

type SourceConfig struct {
	Kind string `yaml:"kind"` // api, table, sheets or db
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Table    string `yaml:"table"`
}

type FilterConfig struct {
	DifficultyMatch string `yaml:"difficulty_match"` // exact or contains
}

type ValidationConfig struct {
	MinLane int `yaml:"min_lane"`
	MaxLane int `yaml:"max_lane"`
	MinYear int `yaml:"min_year"`
	MaxYear int `yaml:"max_year"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Source     SourceConfig     `yaml:"source"`
	Database   DatabaseConfig   `yaml:"database"`
	Filter     FilterConfig     `yaml:"filter"`
	Validation ValidationConfig `yaml:"validation"`
	Log        LogConfig        `yaml:"log"`
}

// Source kinds.
const (
	SourceAPI    = "api"
	SourceTable  = "table"
	SourceSheets = "sheets"
	SourceDB     = "db"
)

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080"},
		Upstream: UpstreamConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutStr:     "15s",
			RoutesPagePath: "/",
		},
		Source:     SourceConfig{Kind: SourceAPI},
		Database:   DatabaseConfig{Host: "localhost", Port: "3306", Table: "routes_route"},
		Filter:     FilterConfig{DifficultyMatch: "exact"},
		Validation: ValidationConfig{MinLane: 1, MaxLane: 3, MinYear: 2020, MaxYear: 2030},
		Log:        LogConfig{Level: "info", File: "./logs/routeboard.log"},
	}
}

// Load builds the configuration from defaults, an optional YAML file, an optional
// .env file and ROUTEBOARD_* environment variables, in that order of precedence.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// Parse durations
	if cfg.Upstream.TimeoutStr != "" {
		d, err := time.ParseDuration(cfg.Upstream.TimeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse upstream timeout: %w", err)
		}
		cfg.Upstream.Timeout = d
	} else {
		cfg.Upstream.Timeout = 15 * time.Second // Default
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str("ROUTEBOARD_PORT", &cfg.Server.Port)
	str("ROUTEBOARD_CSRF_KEY", &cfg.Server.CSRFKey)
	str("ROUTEBOARD_UPSTREAM_URL", &cfg.Upstream.BaseURL)
	str("ROUTEBOARD_UPSTREAM_TIMEOUT", &cfg.Upstream.TimeoutStr)
	str("ROUTEBOARD_SESSION_ID", &cfg.Upstream.SessionID)
	str("ROUTEBOARD_SOURCE", &cfg.Source.Kind)
	str("ROUTEBOARD_DB_HOST", &cfg.Database.Host)
	str("ROUTEBOARD_DB_PORT", &cfg.Database.Port)
	str("ROUTEBOARD_DB_USER", &cfg.Database.User)
	str("ROUTEBOARD_DB_PASSWORD", &cfg.Database.Password)
	str("ROUTEBOARD_DB_NAME", &cfg.Database.DBName)
	str("ROUTEBOARD_DIFFICULTY_MATCH", &cfg.Filter.DifficultyMatch)
	str("ROUTEBOARD_LOG_LEVEL", &cfg.Log.Level)
	str("ROUTEBOARD_LOG_FILE", &cfg.Log.File)

	if v, ok := os.LookupEnv("ROUTEBOARD_MAX_LANE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROUTEBOARD_MAX_LANE: %w", err)
		}
		cfg.Validation.MaxLane = n
	}
	if v, ok := os.LookupEnv("ROUTEBOARD_SECURE_COOKIES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ROUTEBOARD_SECURE_COOKIES: %w", err)
		}
		cfg.Server.SecureCookies = b
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch strings.ToLower(c.Source.Kind) {
	case SourceAPI, SourceTable, SourceSheets, SourceDB:
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Upstream.BaseURL == "" && c.Source.Kind != SourceDB {
		return fmt.Errorf("upstream base_url is required for source %q", c.Source.Kind)
	}
	if c.Server.CSRFKey != "" && len(c.Server.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be 32 bytes, got %d", len(c.Server.CSRFKey))
	}
	if c.Validation.MinLane > c.Validation.MaxLane {
		return fmt.Errorf("validation min_lane %d exceeds max_lane %d", c.Validation.MinLane, c.Validation.MaxLane)
	}
	if c.Validation.MinYear > c.Validation.MaxYear {
		return fmt.Errorf("validation min_year %d exceeds max_year %d", c.Validation.MinYear, c.Validation.MaxYear)
	}
	return nil
}
