// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/thebtf/cinedb/pkg/models"
	"gorm.io/gorm"
)

// isConstraintError reports whether err is a constraint violation, either as
// translated by the dialector or as the raw go-sqlite3 error (check and not
// null constraints are not translated).
func isConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// mapGormError converts GORM and driver errors into model errors. msg
// describes the failed operation.
func mapGormError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	case isConstraintError(err):
		return models.NewValidationError(msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// affected maps a write that matched no row to models.ErrNotFound.
func affected(result *gorm.DB, msg string) error {
	if result.Error != nil {
		return mapGormError(result.Error, msg)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	}
	return nil
}
