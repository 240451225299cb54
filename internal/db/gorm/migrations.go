// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// catalogIndexes back the report queries. Dropping a table drops its indexes,
// so Build recreates them together with the tables.
var catalogIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_film_year_rating ON film (year, rating DESC)",
	"CREATE INDEX IF NOT EXISTS idx_role_person ON role (person)",
	"CREATE INDEX IF NOT EXISTS idx_belongs_to_genre_genre ON belongs_to_genre (genre)",
}

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: catalog tables
		{
			ID:      "001_catalog_schema",
			Migrate: createTables,
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(catalogModels()...)
			},
		},

		// Migration 002: report indexes
		{
			ID:      "002_catalog_indexes",
			Migrate: createIndexes,
			Rollback: func(tx *gorm.DB) error {
				for _, name := range []string{"idx_film_year_rating", "idx_role_person", "idx_belongs_to_genre_genre"} {
					if err := tx.Exec("DROP INDEX IF EXISTS " + name).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Debug().Msg("Catalog migrations up to date")
	return nil
}

// createTables creates the catalog tables that do not exist yet. Existing
// tables are left alone, including ones created by the sqlite backend.
func createTables(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, model := range catalogModels() {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}

func createIndexes(tx *gorm.DB) error {
	for _, stmt := range catalogIndexes {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
