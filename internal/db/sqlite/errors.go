package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/pkg/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isConstraintError reports whether err is a SQLite constraint violation
// (unique, primary key, foreign key, check or not null).
func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

// mapSQLiteError converts mapper and driver errors into model errors. msg
// describes the failed operation.
func mapSQLiteError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, orm.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	case errors.Is(err, orm.ErrConstraint), isConstraintError(err):
		return models.NewValidationError(msg, err)
	case errors.Is(err, orm.ErrAlreadyStored):
		return fmt.Errorf("%s: %w", msg, models.ErrAlreadyStored)
	case errors.Is(err, orm.ErrNotStored):
		return fmt.Errorf("%s: %w", msg, models.ErrNotStored)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
