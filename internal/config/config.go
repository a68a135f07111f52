// Package config loads the YAML configuration shared by the server and CLIs.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/muscles"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Volume    VolumeConfig    `yaml:"volume"`
	Muscles   MusclesConfig   `yaml:"muscles"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Name           string `yaml:"name"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	SSLMode        string `yaml:"sslmode"`
	MigrationsPath string `yaml:"migrations_path"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables serving on a tailnet instead of a plain TCP port.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AnalysisConfig tunes activity classification. Zero values fall back to
// the analysis package defaults.
type AnalysisConfig struct {
	ActiveDaysThreshold int `yaml:"active_days_threshold"`
	MinTrainingDays     int `yaml:"min_training_days"`
}

type VolumeConfig struct {
	DefaultWeeks int `yaml:"default_weeks"`
}

// MusclesConfig holds manual muscle attributions keyed by exercise name.
type MusclesConfig struct {
	Overrides muscles.Overrides `yaml:"overrides"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Options converts the analysis section into pipeline options.
func (a AnalysisConfig) Options() analysis.Options {
	return analysis.Options{
		ActiveDays:      a.ActiveDaysThreshold,
		MinTrainingDays: a.MinTrainingDays,
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix OVERLOAD_ and underscore-separated paths:
//
//	OVERLOAD_SERVER_HOST, OVERLOAD_SERVER_PORT,
//	OVERLOAD_DB_HOST, OVERLOAD_DB_PORT, OVERLOAD_DB_NAME,
//	OVERLOAD_DB_USER, OVERLOAD_DB_PASSWORD, OVERLOAD_DB_SSLMODE,
//	OVERLOAD_DB_MIGRATIONS, OVERLOAD_AUTH_API_KEY,
//	OVERLOAD_TAILSCALE_ENABLED, OVERLOAD_TAILSCALE_HOSTNAME,
//	OVERLOAD_ACTIVE_DAYS, OVERLOAD_MIN_TRAINING_DAYS, OVERLOAD_VOLUME_WEEKS
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(name string, dst *bool) {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	envString("OVERLOAD_SERVER_HOST", &cfg.Server.Host)
	envInt("OVERLOAD_SERVER_PORT", &cfg.Server.Port)
	envString("OVERLOAD_DB_HOST", &cfg.Database.Host)
	envInt("OVERLOAD_DB_PORT", &cfg.Database.Port)
	envString("OVERLOAD_DB_NAME", &cfg.Database.Name)
	envString("OVERLOAD_DB_USER", &cfg.Database.User)
	envString("OVERLOAD_DB_PASSWORD", &cfg.Database.Password)
	envString("OVERLOAD_DB_SSLMODE", &cfg.Database.SSLMode)
	envString("OVERLOAD_DB_MIGRATIONS", &cfg.Database.MigrationsPath)
	envString("OVERLOAD_AUTH_API_KEY", &cfg.Auth.APIKey)
	envBool("OVERLOAD_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	envString("OVERLOAD_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	envInt("OVERLOAD_ACTIVE_DAYS", &cfg.Analysis.ActiveDaysThreshold)
	envInt("OVERLOAD_MIN_TRAINING_DAYS", &cfg.Analysis.MinTrainingDays)
	envInt("OVERLOAD_VOLUME_WEEKS", &cfg.Volume.DefaultWeeks)
}

func (c *Config) applyDefaults() {
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "overload"
	}
	if c.Tailscale.StateDir == "" {
		c.Tailscale.StateDir = "tsnet-state"
	}
	if c.Analysis.ActiveDaysThreshold == 0 {
		c.Analysis.ActiveDaysThreshold = analysis.DefaultActiveDays
	}
	if c.Analysis.MinTrainingDays == 0 {
		c.Analysis.MinTrainingDays = analysis.DefaultMinTrainingDays
	}
	if c.Volume.DefaultWeeks == 0 {
		c.Volume.DefaultWeeks = 4
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Analysis.ActiveDaysThreshold < 0 || c.Analysis.MinTrainingDays < 0 {
		return fmt.Errorf("analysis thresholds must not be negative")
	}
	if c.Volume.DefaultWeeks < 0 {
		return fmt.Errorf("volume.default_weeks must not be negative")
	}
	return nil
}
