package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	apperrors "deskpulse/internal/platform/errors"
)

const (
	stateDirName   = ".deskpulse"
	configFileName = "config.yaml"
	dbFileName     = "deskpulse.db"
	envPrefix      = "deskpulse"
)

// allowedBreakMinutes is the supported set for both break knobs. Values
// outside it are rejected before any session state is touched.
var allowedBreakMinutes = map[int]struct{}{1: {}, 5: {}, 10: {}, 15: {}, 30: {}}

var allowedLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {},
}

type Config struct {
	DataPath   string `yaml:"-" ignored:"true"`
	StateDir   string `yaml:"-" ignored:"true"`
	DBPath     string `yaml:"-" ignored:"true"`
	ConfigPath string `yaml:"-" ignored:"true"`

	BreakFrequencyMinutes  int    `yaml:"break_frequency_minutes" envconfig:"BREAK_FREQUENCY_MINUTES"`
	BreakLengthMinutes     int    `yaml:"break_length_minutes" envconfig:"BREAK_LENGTH_MINUTES"`
	AutoRefreshEnabled     bool   `yaml:"auto_refresh_enabled" envconfig:"AUTO_REFRESH_ENABLED"`
	RefreshIntervalSeconds int    `yaml:"refresh_interval_seconds" envconfig:"REFRESH_INTERVAL_SECONDS"`
	LookbackHours          int    `yaml:"lookback_hours" envconfig:"LOOKBACK_HOURS"`
	SampleLimit            int    `yaml:"sample_limit" envconfig:"SAMPLE_LIMIT"`
	HarvestIntervalSeconds int    `yaml:"harvest_interval_seconds" envconfig:"HARVEST_INTERVAL_SECONDS"`
	DemoMode               bool   `yaml:"demo_mode" envconfig:"DEMO_MODE"`
	LogLevel               string `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

func Defaults() Config {
	return Config{
		BreakFrequencyMinutes:  15,
		BreakLengthMinutes:     5,
		AutoRefreshEnabled:     true,
		RefreshIntervalSeconds: 5,
		LookbackHours:          24,
		SampleLimit:            100,
		HarvestIntervalSeconds: 0,
		DemoMode:               false,
		LogLevel:               "warn",
	}
}

// New resolves the effective configuration for a data directory. Precedence,
// lowest to highest: built-in defaults, config.yaml, .env file, DESKPULSE_*
// environment variables.
func New(dataPath string) (Config, error) {
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	cfg := Defaults()
	cfg.DataPath = dataPath
	cfg.StateDir = filepath.Join(dataPath, stateDirName)
	cfg.DBPath = filepath.Join(cfg.StateDir, dbFileName)
	cfg.ConfigPath = filepath.Join(cfg.StateDir, configFileName)

	if raw, err := os.ReadFile(cfg.ConfigPath); err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", cfg.ConfigPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load(filepath.Join(dataPath, ".env"))

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, ok := allowedBreakMinutes[c.BreakFrequencyMinutes]; !ok {
		return fmt.Errorf("%w: break_frequency_minutes must be one of 1, 5, 10, 15, 30 (got %d)", apperrors.ErrInvalidConfig, c.BreakFrequencyMinutes)
	}
	if _, ok := allowedBreakMinutes[c.BreakLengthMinutes]; !ok {
		return fmt.Errorf("%w: break_length_minutes must be one of 1, 5, 10, 15, 30 (got %d)", apperrors.ErrInvalidConfig, c.BreakLengthMinutes)
	}
	if c.RefreshIntervalSeconds < 1 {
		return fmt.Errorf("%w: refresh_interval_seconds must be >= 1 (got %d)", apperrors.ErrInvalidConfig, c.RefreshIntervalSeconds)
	}
	if c.LookbackHours < 1 {
		return fmt.Errorf("%w: lookback_hours must be >= 1 (got %d)", apperrors.ErrInvalidConfig, c.LookbackHours)
	}
	if c.SampleLimit < 1 || c.SampleLimit > 1000 {
		return fmt.Errorf("%w: sample_limit must be within 1..1000 (got %d)", apperrors.ErrInvalidConfig, c.SampleLimit)
	}
	if c.HarvestIntervalSeconds < 0 {
		return fmt.Errorf("%w: harvest_interval_seconds must be >= 0 (got %d)", apperrors.ErrInvalidConfig, c.HarvestIntervalSeconds)
	}
	if _, ok := allowedLogLevels[c.LogLevel]; !ok {
		return fmt.Errorf("%w: log_level must be one of trace, debug, info, warn, error (got %q)", apperrors.ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Save writes the tunable fields back to config.yaml so settings changes
// survive restarts.
func (c Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Set assigns one tunable by its yaml key. Callers are expected to
// Validate (or Save, which validates) afterwards.
func (c *Config) Set(field, value string) error {
	switch field {
	case "break_frequency_minutes":
		return setInt(&c.BreakFrequencyMinutes, field, value)
	case "break_length_minutes":
		return setInt(&c.BreakLengthMinutes, field, value)
	case "auto_refresh_enabled":
		return setBool(&c.AutoRefreshEnabled, field, value)
	case "refresh_interval_seconds":
		return setInt(&c.RefreshIntervalSeconds, field, value)
	case "lookback_hours":
		return setInt(&c.LookbackHours, field, value)
	case "sample_limit":
		return setInt(&c.SampleLimit, field, value)
	case "harvest_interval_seconds":
		return setInt(&c.HarvestIntervalSeconds, field, value)
	case "demo_mode":
		return setBool(&c.DemoMode, field, value)
	case "log_level":
		c.LogLevel = value
		return nil
	default:
		return fmt.Errorf("%w: unknown setting %q", apperrors.ErrInvalidConfig, field)
	}
}

func setInt(dst *int, field, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %s expects an integer (got %q)", apperrors.ErrInvalidConfig, field, value)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, field, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %s expects a boolean (got %q)", apperrors.ErrInvalidConfig, field, value)
	}
	*dst = b
	return nil
}

func (c Config) BreakFrequency() time.Duration {
	return time.Duration(c.BreakFrequencyMinutes) * time.Minute
}

func (c Config) BreakLength() time.Duration {
	return time.Duration(c.BreakLengthMinutes) * time.Minute
}

func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackHours) * time.Hour
}

func (c Config) HarvestInterval() time.Duration {
	return time.Duration(c.HarvestIntervalSeconds) * time.Second
}
