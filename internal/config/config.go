package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// storage
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`
	RedisHost        string `toml:"redis_host"`
	RedisPort        string `toml:"redis_port"`
	// http
	AllowedOrigins              []string `toml:"allowed_origins"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	MCPEnabled                  bool     `toml:"mcp_enabled"`
	// progress tracking
	DefaultTimezone       string `toml:"default_timezone"`
	WorkoutSaveDebounceMs int    `toml:"workout_save_debounce_ms"`
	DietSaveDebounceMs    int    `toml:"diet_save_debounce_ms"`
	DayCacheSizeMB        int    `toml:"day_cache_size_mb"`
	HistoryLimit          int    `toml:"history_limit"`
	// plan reconciliation
	ReconcileMaxAttempts       int `toml:"reconcile_max_attempts"`
	ReconcileMismatchThreshold int `toml:"reconcile_mismatch_threshold"`
	// scheduled jobs, robfig/cron spec strings
	SessionCleanupSchedule string `toml:"session_cleanup_schedule"`
	CacheTrimSchedule      string `toml:"cache_trim_schedule"`
	// backups
	BackupsFolderName string `toml:"backups_folder_name"`
	// BackupsShareWith gets reader access to the backups folder and files
	BackupsShareWith string `toml:"backups_share_with"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	return Decode(env, f)
}

// Decode reads a TOML document with [development] and [production] sections
// and returns the one selected by env, with defaults applied.
func Decode(env string, r io.Reader) (*Config, error) {
	var t Toml
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 6
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "UTC"
	}
	if c.WorkoutSaveDebounceMs == 0 {
		c.WorkoutSaveDebounceMs = 500
	}
	if c.DietSaveDebounceMs == 0 {
		c.DietSaveDebounceMs = 1000
	}
	if c.DayCacheSizeMB == 0 {
		c.DayCacheSizeMB = 16
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = 90
	}
	if c.ReconcileMaxAttempts == 0 {
		c.ReconcileMaxAttempts = 3
	}
	if c.ReconcileMismatchThreshold == 0 {
		c.ReconcileMismatchThreshold = 3
	}
	if c.SessionCleanupSchedule == "" {
		c.SessionCleanupSchedule = "@every 8h"
	}
	if c.CacheTrimSchedule == "" {
		c.CacheTrimSchedule = "@daily"
	}
	if c.BackupsFolderName == "" {
		c.BackupsFolderName = "fittrack-backups"
	}
}

func (c *Config) WorkoutSaveDebounce() time.Duration {
	return time.Duration(c.WorkoutSaveDebounceMs) * time.Millisecond
}

func (c *Config) DietSaveDebounce() time.Duration {
	return time.Duration(c.DietSaveDebounceMs) * time.Millisecond
}
