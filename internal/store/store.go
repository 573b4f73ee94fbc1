// Package store persists normalized indicator records with gorm, on SQLite
// by default or PostgreSQL.
//
// A Store is opened by each job for the duration of its run and closed when
// the job exits; it is never shared between processes or held globally.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"indicators/internal/config"
)

// Rows per INSERT statement.
const insertBatchSize = 500

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store is a handle on the indicators database.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to the configured database.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "store"))

	gormConfig := &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger}, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
		}),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
	default:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		db.Exec("PRAGMA journal_mode=WAL")
		db.Exec("PRAGMA busy_timeout=5000")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.Info("store_opened", slog.String("driver", driverName(cfg.Driver)))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// EnsureTable creates the dataset table and its indexes when absent.
func (s *Store) EnsureTable(ctx context.Context, ds Dataset) error {
	return ensureTable(s.db.WithContext(ctx), ds)
}

func ensureTable(db *gorm.DB, ds Dataset) error {
	if !tableNamePattern.MatchString(ds.Table) {
		return fmt.Errorf("invalid table name %q", ds.Table)
	}

	var (
		model   any
		columns string
	)
	switch ds.Layout {
	case LayoutEmployment:
		model, columns = &EmploymentRow{}, "country_code, year"
	default:
		model, columns = &SeriesRow{}, "timestamp"
	}

	if err := db.Table(ds.Table).AutoMigrate(model); err != nil {
		return fmt.Errorf("create table %s: %w", ds.Table, err)
	}

	// Replace tables hold one run, so their natural key is unique. Append
	// tables accumulate reruns and are only indexed.
	unique := ""
	if ds.Policy == Replace {
		unique = "UNIQUE "
	}
	stmt := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS idx_%s_key ON %s (%s)", unique, ds.Table, ds.Table, columns)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create index on %s: %w", ds.Table, err)
	}
	return nil
}

func driverName(driver string) string {
	if driver == "postgres" {
		return driver
	}
	return "sqlite"
}

// slogWriter adapts slog to gorm's Printf based logger.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Debug(fmt.Sprintf(format, args...))
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
