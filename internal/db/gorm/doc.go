// Package gorm provides a GORM-based implementation of db.Catalog for cinedb.
//
// It is an alternative to internal/db/sqlite, selected with the "gorm"
// backend setting, and works on the same database file layout:
//
//	catalog, err := gorm.Open(gorm.Config{
//	    Path:     "/path/to/cinedb.db",
//	    LogLevel: logger.Silent,
//	})
//
// Schema changes are tracked by gormigrate in the migrations table. The
// go-sqlite3 driver requires cgo.
package gorm
