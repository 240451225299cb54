// Package catalog opens the catalog database with the configured backend.
package catalog

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/thebtf/cinedb/internal/config"
	"github.com/thebtf/cinedb/internal/db"
	gormdb "github.com/thebtf/cinedb/internal/db/gorm"
	"github.com/thebtf/cinedb/internal/db/sqlite"
)

// Open creates the data directory if needed and opens the database at
// cfg.DBPath with the backend cfg.Backend names. A nil cfg uses the process
// configuration from config.Get.
func Open(cfg *config.Config) (db.Catalog, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	log.Debug().Str("backend", cfg.Backend).Str("path", cfg.DBPath).Msg("Opening catalog")

	switch cfg.Backend {
	case config.BackendGorm:
		c, err := gormdb.Open(gormdb.Config{
			Path:         cfg.DBPath,
			PasswordCost: cfg.PasswordCost,
			LogLevel:     gormLogLevel(cfg.LogLevel),
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := sqlite.Open(sqlite.StoreConfig{
			Path:         cfg.DBPath,
			PasswordCost: cfg.PasswordCost,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// gormLogLevel shows SQL statements only at debug level.
func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	}
	return logger.Silent
}
