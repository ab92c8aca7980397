package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	Database     DatabaseConfig
	LocalQueue   LocalQueueConfig
	Redis        RedisConfig
	Log          LogConfig
	Connectivity ConnectivityConfig
	Sync         SyncConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
}

// DatabaseConfig holds the authoritative sale store (postgres) settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LocalQueueConfig holds the local durable queue (sqlite) settings.
// The queue file is local to one application instance and must survive
// process restarts.
type LocalQueueConfig struct {
	Path string
}

// RedisConfig holds Redis connection settings (VAT rate cache and
// submission deduplication)
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// Addr returns the host:port address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ConnectivityConfig holds reachability probe settings
type ConnectivityConfig struct {
	ProbeURL      string
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	Debounce      time.Duration
}

// SyncConfig holds sync coordinator settings
type SyncConfig struct {
	PerRecordTimeout time.Duration
	AutoSyncEnabled  bool
	DedupTTL         time.Duration
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SALELEDGER_ prefix (e.g. SALELEDGER_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Missing config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("SALELEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		LocalQueue: LocalQueueConfig{
			Path: v.GetString("local_queue.path"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Enabled:  v.GetBool("redis.enabled"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Connectivity: ConnectivityConfig{
			ProbeURL:      v.GetString("connectivity.probe_url"),
			ProbeInterval: v.GetDuration("connectivity.probe_interval"),
			ProbeTimeout:  v.GetDuration("connectivity.probe_timeout"),
			Debounce:      v.GetDuration("connectivity.debounce"),
		},
		Sync: SyncConfig{
			PerRecordTimeout: v.GetDuration("sync.per_record_timeout"),
			AutoSyncEnabled:  v.GetBool("sync.auto_sync_enabled"),
			DedupTTL:         v.GetDuration("sync.dedup_ttl"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "saleledger-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "saleledger"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.LocalQueue.Path == "" {
		cfg.LocalQueue.Path = "saleledger-queue.db"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Connectivity.ProbeURL == "" {
		cfg.Connectivity.ProbeURL = "http://localhost:8080/health"
	}
	if cfg.Connectivity.ProbeInterval == 0 {
		cfg.Connectivity.ProbeInterval = 15 * time.Second
	}
	if cfg.Connectivity.ProbeTimeout == 0 {
		cfg.Connectivity.ProbeTimeout = 5 * time.Second
	}
	if cfg.Connectivity.Debounce == 0 {
		cfg.Connectivity.Debounce = 30 * time.Second
	}
	if cfg.Sync.PerRecordTimeout == 0 {
		cfg.Sync.PerRecordTimeout = 10 * time.Second
	}
	if cfg.Sync.DedupTTL == 0 {
		cfg.Sync.DedupTTL = 7 * 24 * time.Hour
	}
}

// validate checks that the configuration is usable
func (c *Config) validate() error {
	if c.App.Env != "development" && c.App.Env != "production" && c.App.Env != "test" {
		return fmt.Errorf("invalid app.env %q: must be development, production, or test", c.App.Env)
	}
	if c.Sync.PerRecordTimeout < time.Second {
		return fmt.Errorf("sync.per_record_timeout %v is too low: minimum 1s", c.Sync.PerRecordTimeout)
	}
	if c.Connectivity.ProbeTimeout >= c.Connectivity.ProbeInterval {
		return fmt.Errorf("connectivity.probe_timeout %v must be below probe_interval %v",
			c.Connectivity.ProbeTimeout, c.Connectivity.ProbeInterval)
	}
	return nil
}
