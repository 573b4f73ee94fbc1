package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Fetch     FetchConfig     `yaml:"fetch" envconfig:"FETCH"`
	Archive   ArchiveConfig   `yaml:"archive" envconfig:"ARCHIVE"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// DatabaseConfig selects the store backend
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" envconfig:"DRIVER" default:"sqlite" validate:"oneof=sqlite postgres"`
	Path            string        `yaml:"path" envconfig:"FILE" default:"databases/social_indicators.db"`
	DSN             string        `yaml:"dsn" envconfig:"DSN" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS" default:"4" validate:"gte=1"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS" default:"2" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME" default:"30m"`
	LogLevel        string        `yaml:"log_level" envconfig:"LOG_LEVEL" default:"warn" validate:"oneof=silent error warn info"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format     string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output     string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath   string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/indicators.log"`
	MaxSizeMB  int    `yaml:"max_size_mb" envconfig:"MAX_SIZE_MB" default:"50" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" envconfig:"MAX_BACKUPS" default:"5" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" envconfig:"MAX_AGE_DAYS" default:"30" validate:"gte=0"`
}

// FetchConfig tunes source downloads
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"5m" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"indicators/1.0"`
}

// ArchiveConfig controls retention of raw downloaded payloads
type ArchiveConfig struct {
	Backend string   `yaml:"backend" envconfig:"BACKEND" default:"local" validate:"oneof=none local s3"`
	Dir     string   `yaml:"dir" envconfig:"DIR" default:"data/raw"`
	S3      S3Config `yaml:"s3" envconfig:"S3"`
}

// S3Config points the archive at S3-compatible object storage
type S3Config struct {
	Bucket    string `yaml:"bucket" envconfig:"BUCKET"`
	Endpoint  string `yaml:"endpoint" envconfig:"ENDPOINT"`
	Region    string `yaml:"region" envconfig:"REGION" default:"us-east-1"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl" envconfig:"USE_SSL" default:"true"`
	Prefix    string `yaml:"prefix" envconfig:"PREFIX" default:"raw"`
}

// ServerConfig contains HTTP server configuration for the query service
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"5000" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"10" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"20" validate:"gte=1"`
}

// TelemetryConfig contains tracing and metrics settings
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"indicators"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	// MetricsTextfile is where batch runs write their metrics in Prometheus
	// text format. Empty disables it.
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// BaseDir anchors relative paths; empty means the working directory.
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	BinDir     string `yaml:"bin_dir" envconfig:"BIN_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
}

var validate = validator.New()

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	return validate
}

// Load loads configuration from a .env file, environment variables and the
// YAML config file. Environment variables take precedence over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// pick returns the file value unless the environment variable is set or the
// file leaves the field empty.
func pick[T comparable](key string, envVal, fileVal T) T {
	var zero T
	if _, ok := os.LookupEnv(EnvPrefix + "_" + key); ok || fileVal == zero {
		return envVal
	}
	return fileVal
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(file, env Config) Config {
	out := env

	out.Database.Driver = pick("DATABASE_DRIVER", env.Database.Driver, file.Database.Driver)
	out.Database.Path = pick("DATABASE_FILE", env.Database.Path, file.Database.Path)
	out.Database.DSN = pick("DATABASE_DSN", env.Database.DSN, file.Database.DSN)
	out.Database.MaxOpenConns = pick("DATABASE_MAX_OPEN_CONNS", env.Database.MaxOpenConns, file.Database.MaxOpenConns)
	out.Database.MaxIdleConns = pick("DATABASE_MAX_IDLE_CONNS", env.Database.MaxIdleConns, file.Database.MaxIdleConns)
	out.Database.ConnMaxLifetime = pick("DATABASE_CONN_MAX_LIFETIME", env.Database.ConnMaxLifetime, file.Database.ConnMaxLifetime)
	out.Database.LogLevel = pick("DATABASE_LOG_LEVEL", env.Database.LogLevel, file.Database.LogLevel)

	out.Logging.Level = pick("LOGGING_LEVEL", env.Logging.Level, file.Logging.Level)
	out.Logging.Output = pick("LOGGING_OUTPUT", env.Logging.Output, file.Logging.Output)
	out.Logging.FilePath = pick("LOGGING_FILE_PATH", env.Logging.FilePath, file.Logging.FilePath)
	out.Logging.MaxSizeMB = pick("LOGGING_MAX_SIZE_MB", env.Logging.MaxSizeMB, file.Logging.MaxSizeMB)
	out.Logging.MaxBackups = pick("LOGGING_MAX_BACKUPS", env.Logging.MaxBackups, file.Logging.MaxBackups)
	out.Logging.MaxAgeDays = pick("LOGGING_MAX_AGE_DAYS", env.Logging.MaxAgeDays, file.Logging.MaxAgeDays)

	out.Fetch.Timeout = pick("FETCH_TIMEOUT", env.Fetch.Timeout, file.Fetch.Timeout)
	out.Fetch.UserAgent = pick("FETCH_USER_AGENT", env.Fetch.UserAgent, file.Fetch.UserAgent)

	out.Archive.Backend = pick("ARCHIVE_BACKEND", env.Archive.Backend, file.Archive.Backend)
	out.Archive.Dir = pick("ARCHIVE_DIR", env.Archive.Dir, file.Archive.Dir)
	out.Archive.S3.Bucket = pick("ARCHIVE_S3_BUCKET", env.Archive.S3.Bucket, file.Archive.S3.Bucket)
	out.Archive.S3.Endpoint = pick("ARCHIVE_S3_ENDPOINT", env.Archive.S3.Endpoint, file.Archive.S3.Endpoint)
	out.Archive.S3.Region = pick("ARCHIVE_S3_REGION", env.Archive.S3.Region, file.Archive.S3.Region)
	out.Archive.S3.AccessKey = pick("ARCHIVE_S3_ACCESS_KEY", env.Archive.S3.AccessKey, file.Archive.S3.AccessKey)
	out.Archive.S3.SecretKey = pick("ARCHIVE_S3_SECRET_KEY", env.Archive.S3.SecretKey, file.Archive.S3.SecretKey)
	out.Archive.S3.Prefix = pick("ARCHIVE_S3_PREFIX", env.Archive.S3.Prefix, file.Archive.S3.Prefix)

	out.Server.Port = pick("SERVER_PORT", env.Server.Port, file.Server.Port)
	out.Server.ReadTimeout = pick("SERVER_READ_TIMEOUT", env.Server.ReadTimeout, file.Server.ReadTimeout)
	out.Server.WriteTimeout = pick("SERVER_WRITE_TIMEOUT", env.Server.WriteTimeout, file.Server.WriteTimeout)
	out.Server.IdleTimeout = pick("SERVER_IDLE_TIMEOUT", env.Server.IdleTimeout, file.Server.IdleTimeout)
	out.Server.ShutdownTimeout = pick("SERVER_SHUTDOWN_TIMEOUT", env.Server.ShutdownTimeout, file.Server.ShutdownTimeout)
	out.Server.RateLimit.RPS = pick("SERVER_RATE_LIMIT_RPS", env.Server.RateLimit.RPS, file.Server.RateLimit.RPS)
	out.Server.RateLimit.Burst = pick("SERVER_RATE_LIMIT_BURST", env.Server.RateLimit.Burst, file.Server.RateLimit.Burst)

	out.Telemetry.ServiceName = pick("TELEMETRY_SERVICE_NAME", env.Telemetry.ServiceName, file.Telemetry.ServiceName)
	out.Telemetry.TraceExporter = pick("TELEMETRY_TRACE_EXPORTER", env.Telemetry.TraceExporter, file.Telemetry.TraceExporter)
	out.Telemetry.MetricsTextfile = pick("TELEMETRY_METRICS_TEXTFILE", env.Telemetry.MetricsTextfile, file.Telemetry.MetricsTextfile)

	out.Paths.BaseDir = pick("PATHS_BASE_DIR", env.Paths.BaseDir, file.Paths.BaseDir)
	out.Paths.BinDir = pick("PATHS_BIN_DIR", env.Paths.BinDir, file.Paths.BinDir)
	out.Paths.ReportsDir = pick("PATHS_REPORTS_DIR", env.Paths.ReportsDir, file.Paths.ReportsDir)

	// Booleans are read from the environment only: the file cannot tell
	// false from unset.
	return out
}

// resolvePaths anchors relative paths at BaseDir
func (c *Config) resolvePaths() {
	c.Database.Path = c.Paths.Resolve(c.Database.Path)
	c.Logging.FilePath = c.Paths.Resolve(c.Logging.FilePath)
	c.Archive.Dir = c.Paths.Resolve(c.Archive.Dir)
	c.Paths.ReportsDir = c.Paths.Resolve(c.Paths.ReportsDir)
	if c.Telemetry.MetricsTextfile != "" {
		c.Telemetry.MetricsTextfile = c.Paths.Resolve(c.Telemetry.MetricsTextfile)
	}
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Logging.Format != "json" {
		// only JSON logs are emitted
		c.Logging.Format = "json"
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database max_idle_conns (%d) exceeds max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	if dir, err := ExecutableDir(); err == nil {
		locations = append(locations, filepath.Join(dir, "config.yaml"))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the configuration produced by the default tags alone.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Path:            "databases/social_indicators.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			LogLevel:        "warn",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Output:     "console",
			FilePath:   "logs/indicators.log",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Fetch: FetchConfig{
			Timeout:   5 * time.Minute,
			UserAgent: "indicators/1.0",
		},
		Archive: ArchiveConfig{
			Backend: "local",
			Dir:     "data/raw",
			S3:      S3Config{Region: "us-east-1", UseSSL: true, Prefix: "raw"},
		},
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       RateLimitConfig{Enabled: true, RPS: 10, Burst: 20},
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "indicators",
			TraceExporter: "none",
		},
		Paths: PathsConfig{
			ReportsDir: "data/reports",
		},
	}
}
