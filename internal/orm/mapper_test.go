package orm

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testMapper(t *testing.T) (*Mapper, *sql.DB) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "orm.db") + "?_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	reg, _, _, _ := testRegistry(t)
	require.NoError(t, reg.CreateAll(context.Background(), db, false))

	classify := func(err error) bool {
		return strings.Contains(err.Error(), "constraint failed")
	}
	return NewMapper(db, reg, WithConstraintClassifier(classify)), db
}

func TestMapper_RoundTrip(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	tag := &testTag{Code: "PG"}
	require.NoError(t, m.Insert(ctx, tag))

	score := 8.5
	code := "PG"
	film := &testFilm{
		Title:  "Heat",
		Year:   1995,
		Score:  &score,
		Tag:    &code,
		Poster: []byte{0x1, 0x2},
		Seen:   true,
	}
	require.NoError(t, m.Insert(ctx, film))
	assert.Equal(t, int64(1), film.ID)

	got := &testFilm{ID: film.ID}
	require.NoError(t, m.Get(ctx, got))
	assert.Equal(t, film, got)

	// Nullable columns come back nil.
	bare := &testFilm{Title: "Ronin", Year: 1998}
	require.NoError(t, m.Insert(ctx, bare))
	gotBare := &testFilm{ID: bare.ID}
	require.NoError(t, m.Get(ctx, gotBare))
	assert.Nil(t, gotBare.Score)
	assert.Nil(t, gotBare.Tag)
	assert.Nil(t, gotBare.Poster)
	assert.False(t, gotBare.Seen)
}

func TestMapper_UpdateAndDelete(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	film := &testFilm{Title: "Alien", Year: 1979}
	require.NoError(t, m.Insert(ctx, film))
	id := film.ID

	film.Year = 1986
	film.Title = "Aliens"
	require.NoError(t, m.Update(ctx, film))

	got := &testFilm{ID: id}
	require.NoError(t, m.Get(ctx, got))
	assert.Equal(t, "Aliens", got.Title)
	assert.Equal(t, 1986, got.Year)

	require.NoError(t, m.Delete(ctx, film))
	assert.Zero(t, film.ID)

	err := m.Get(ctx, &testFilm{ID: id})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapper_StoredState(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	err := m.Update(ctx, &testFilm{Title: "Unsaved"})
	assert.ErrorIs(t, err, ErrNotStored)

	err = m.Delete(ctx, &testFilm{Title: "Unsaved"})
	assert.ErrorIs(t, err, ErrNotStored)

	film := &testFilm{Title: "Saved"}
	require.NoError(t, m.Insert(ctx, film))
	err = m.Insert(ctx, film)
	assert.ErrorIs(t, err, ErrAlreadyStored)

	err = m.Update(ctx, &testFilm{ID: 999, Title: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapper_ConstraintViolations(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	require.NoError(t, m.Insert(ctx, &testFilm{Title: "Solaris"}))

	t.Run("unique", func(t *testing.T) {
		dup := &testFilm{Title: "Solaris"}
		err := m.Insert(ctx, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConstraint)
		assert.Zero(t, dup.ID)

		var ce *ConstraintError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "insert", ce.Op)
		assert.Equal(t, "test_film", ce.Table)
	})

	t.Run("foreign key", func(t *testing.T) {
		missing := "NC-17"
		err := m.Insert(ctx, &testFilm{Title: "Crash", Tag: &missing})
		assert.ErrorIs(t, err, ErrConstraint)
	})

	t.Run("check", func(t *testing.T) {
		err := m.Insert(ctx, &testCredit{FilmID: 1, Kind: "cameo", Slot: 1})
		assert.ErrorIs(t, err, ErrConstraint)
	})

	t.Run("composite unique", func(t *testing.T) {
		require.NoError(t, m.Insert(ctx, &testCredit{FilmID: 1, Kind: "lead", Slot: 1}))
		err := m.Insert(ctx, &testCredit{FilmID: 1, Kind: "lead", Slot: 2})
		assert.ErrorIs(t, err, ErrConstraint)
	})
}

func TestMapper_RelationUpdate(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	require.NoError(t, m.Insert(ctx, &testFilm{Title: "Brazil"}))
	credit := &testCredit{FilmID: 1, Kind: "extra", Slot: 3}
	require.NoError(t, m.Insert(ctx, credit))

	credit.Slot = 4
	require.NoError(t, m.Update(ctx, credit))

	got := &testCredit{FilmID: 1, Kind: "extra"}
	require.NoError(t, m.Get(ctx, got))
	assert.Equal(t, 4, got.Slot)

	err := m.Update(ctx, &testTag{Code: "R"})
	assert.Error(t, err)
}

func TestMapper_InTxRollsBack(t *testing.T) {
	m, db := testMapper(t)
	ctx := context.Background()
	tags, _ := m.Registry().Table("test_tag")

	boom := errors.New("boom")
	err := m.InTx(ctx, func(tx *sql.Tx) error {
		if err := tags.Insert(ctx, tx, &testTag{Code: "G"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM test_tag").Scan(&count))
	assert.Zero(t, count)
}

func TestSelect(t *testing.T) {
	m, db := testMapper(t)
	ctx := context.Background()

	for _, title := range []string{"Ran", "Kagemusha", "Ikiru"} {
		require.NoError(t, m.Insert(ctx, &testFilm{Title: title}))
	}
	films, _ := m.Registry().Table("test_film")

	got, err := Select[testFilm](ctx, db, films, "ORDER BY title LIMIT ?", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ikiru", got[0].Title)
	assert.Equal(t, "Kagemusha", got[1].Title)

	none, err := Select[testFilm](ctx, db, films, "WHERE title = ?", "Rashomon")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = Select[testTag](ctx, db, films, "")
	assert.Error(t, err)
}

func TestMapper_RejectsUnregisteredAndNonPointer(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	assert.Error(t, m.Insert(ctx, &struct{ X int }{}))
	assert.Error(t, m.Insert(ctx, testTag{Code: "X"}))
}

func TestTable_Import(t *testing.T) {
	m, db := testMapper(t)
	ctx := context.Background()
	films, _ := m.Registry().Table("test_film")

	err := m.InTx(ctx, func(tx *sql.Tx) error {
		if err := films.Import(ctx, tx, &testFilm{ID: 40, Title: "Stalker"}); err != nil {
			return err
		}
		next := &testFilm{Title: "Mirror"}
		if err := films.Import(ctx, tx, next); err != nil {
			return err
		}
		assert.Equal(t, int64(41), next.ID)
		return nil
	})
	require.NoError(t, err)

	got := &testFilm{ID: 40}
	require.NoError(t, films.Get(ctx, db, got))
	assert.Equal(t, "Stalker", got.Title)
}
