// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebtf/cinedb/internal/password"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// slowOperation is the duration above which WithTimeout logs a warning.
	slowOperation = 100 * time.Millisecond
	pingTimeout   = 5 * time.Second
)

// Store represents the GORM database connection to a SQLite file.
type Store struct {
	DB    *gorm.DB
	sqlDB *sql.DB

	passwordCost int
}

// Config holds database configuration.
type Config struct {
	Path         string          // SQLite database file
	PasswordCost int             // bcrypt cost for new passwords (default: password.DefaultCost)
	LogLevel     logger.LogLevel // GORM log level (logger.Silent for production)
}

// DSN returns the go-sqlite3 connection string for path with foreign keys on.
func DSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

// NewStore opens the database file and applies pending migrations.
func NewStore(cfg Config) (*Store, error) {
	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(DSN(cfg.Path)), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	// One connection: PRAGMA foreign_keys is per connection and Build relies on it.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	cost := cfg.PasswordCost
	if cost == 0 {
		cost = password.DefaultCost
	}
	store := &Store{
		DB:           db,
		sqlDB:        sqlDB,
		passwordCost: cost,
	}

	if err := runMigrations(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Debug().Str("path", cfg.Path).Msg("Opened catalog database with GORM")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.WithTimeout(ctx, pingTimeout, "ping")
	defer cancel()
	return s.sqlDB.PingContext(ctx)
}

// GetRawDB returns the underlying *sql.DB for operations GORM can't handle.
func (s *Store) GetRawDB() *sql.DB {
	return s.sqlDB
}

// WithTimeout wraps a context with the given timeout and logs slow operations.
// Returns the wrapped context and a cancel function that should be called when done.
func (s *Store) WithTimeout(ctx context.Context, timeout time.Duration, operation string) (context.Context, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	start := time.Now()

	return timeoutCtx, func() {
		elapsed := time.Since(start)
		cancel()

		if elapsed > slowOperation {
			log.Warn().
				Str("operation", operation).
				Dur("elapsed", elapsed).
				Dur("timeout", timeout).
				Msg("Slow database operation")
		}
	}
}
