package sqlite

import (
	"context"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/seed"
	"github.com/thebtf/cinedb/pkg/models"
)

// DefaultBestLimit is the number of films BestInYear returns for a
// non-positive limit.
const DefaultBestLimit = 10

// FilmStore provides film-related database operations.
type FilmStore struct {
	store *Store
}

// NewFilmStore creates a new film store.
func NewFilmStore(store *Store) *FilmStore {
	return &FilmStore{store: store}
}

// CreateFilm stores f and fills f.ID.
func (s *FilmStore) CreateFilm(ctx context.Context, f *models.Film) error {
	return mapSQLiteError(s.store.mapper.Insert(ctx, f), "could not add film")
}

// UpdateFilm rewrites every column of a stored film.
func (s *FilmStore) UpdateFilm(ctx context.Context, f *models.Film) error {
	return mapSQLiteError(s.store.mapper.Update(ctx, f), "could not update film")
}

// DeleteFilm removes a stored film and clears f.ID. Films that still have
// roles or genres cannot be deleted.
func (s *FilmStore) DeleteFilm(ctx context.Context, f *models.Film) error {
	return mapSQLiteError(s.store.mapper.Delete(ctx, f), "could not delete film")
}

// GetFilmByID returns the film with id.
func (s *FilmStore) GetFilmByID(ctx context.Context, id int64) (*models.Film, error) {
	f := &models.Film{ID: id}
	if err := s.store.mapper.Get(ctx, f); err != nil {
		return nil, mapSQLiteError(err, fmt.Sprintf("film %d", id))
	}
	return f, nil
}

// BestInYear returns the limit highest rated films released in year.
func (s *FilmStore) BestInYear(ctx context.Context, year, limit int) ([]*models.Film, error) {
	if limit <= 0 {
		limit = DefaultBestLimit
	}
	films, err := orm.Select[models.Film](ctx, s.store, s.store.schema.films,
		"WHERE year = ? ORDER BY rating DESC, id LIMIT ?", year, limit)
	if err != nil {
		return nil, fmt.Errorf("best films of %d: %w", year, err)
	}
	return films, nil
}

// Cast returns everybody credited on the film, directors first, each group
// in credited order.
func (s *FilmStore) Cast(ctx context.Context, filmID int64) ([]*models.Credit, error) {
	film, err := s.GetFilmByID(ctx, filmID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT person.id, person.name, role.type, role.position
		  FROM person
		  JOIN role ON person.id = role.person
		 WHERE role.film = ?
		 ORDER BY role.type DESC, role.position`

	rows, err := s.store.QueryContext(ctx, query, filmID)
	if err != nil {
		return nil, fmt.Errorf("cast of film %d: %w", filmID, err)
	}
	defer rows.Close()

	credits := []*models.Credit{}
	for rows.Next() {
		c := &models.Credit{Film: *film}
		if err := rows.Scan(&c.Person.ID, &c.Person.Name, &c.Type, &c.Position); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

// ImportFilms inserts films from rows keyed by film column names, keeping
// their ids. Tags that do not exist yet are inserted first.
func (s *FilmStore) ImportFilms(ctx context.Context, q orm.Querier, src *seed.Source) (int, error) {
	if src == nil {
		return 0, nil
	}
	tags := s.store.schema.tags
	films := s.store.schema.films
	seen := make(map[string]bool)

	for i, row := range src.Rows {
		f, err := seed.ParseFilm(row)
		if err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
		if f.Tag != nil && !seen[*f.Tag] {
			if err := ensureTag(ctx, q, tags, *f.Tag); err != nil {
				return i, fmt.Errorf("%s row %d: tag %s: %w", src.Name, i+1, *f.Tag, err)
			}
			seen[*f.Tag] = true
		}
		if err := films.Import(ctx, q, f); err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
	}
	return len(src.Rows), nil
}
