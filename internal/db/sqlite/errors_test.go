package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

func TestMapSQLiteError(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", fmt.Errorf("get film: %w", orm.ErrNotFound), models.ErrNotFound},
		{"no rows", sql.ErrNoRows, models.ErrNotFound},
		{"constraint", &orm.ConstraintError{Op: "insert", Table: "genre", Err: boom}, models.ErrValidation},
		{"already stored", orm.ErrAlreadyStored, models.ErrAlreadyStored},
		{"not stored", orm.ErrNotStored, models.ErrNotStored},
		{"other", boom, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapSQLiteError(tt.err, "could not add genre")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "could not add genre")
		})
	}

	assert.NoError(t, mapSQLiteError(nil, "noop"))
	assert.False(t, isConstraintError(boom))
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return newStoreFromDB(sqlDB, bcrypt.MinCost), mock
}

func TestMapper_RollsBackFailedInsert(t *testing.T) {
	store, mock := newMockStore(t)
	tags := NewTagStore(store)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO tag (code) VALUES (?)").
		WithArgs("PG").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := tags.CreateTag(context.Background(), &models.Tag{Code: "PG"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NotErrorIs(t, err, models.ErrValidation)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapper_CommitsInsert(t *testing.T) {
	store, mock := newMockStore(t)
	films := NewFilmStore(store)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO film (title, length, year, rating, metascore, votes, revenue, tag, description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)").
		WithArgs("Stalker", 161, 1979, 8.1, sqlmock.AnyArg(), 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	f := &models.Film{Title: "Stalker", Length: 161, Year: 1979, Rating: 8.1}
	require.NoError(t, films.CreateFilm(context.Background(), f))
	assert.Equal(t, int64(42), f.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapper_StoredRecordSkipsDatabase(t *testing.T) {
	store, mock := newMockStore(t)
	films := NewFilmStore(store)

	// The stored-state check fails inside the transaction, before any statement.
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := films.CreateFilm(context.Background(), &models.Film{ID: 3, Title: "Se7en"})
	assert.ErrorIs(t, err, models.ErrAlreadyStored)
	require.NoError(t, mock.ExpectationsWereMet())
}
