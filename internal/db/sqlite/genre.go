package sqlite

import (
	"context"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/seed"
	"github.com/thebtf/cinedb/pkg/models"
)

// GenreStore provides genre and genre membership operations.
type GenreStore struct {
	store *Store
}

// NewGenreStore creates a new genre store.
func NewGenreStore(store *Store) *GenreStore {
	return &GenreStore{store: store}
}

// CreateGenre stores g and fills g.ID.
func (s *GenreStore) CreateGenre(ctx context.Context, g *models.Genre) error {
	if g.Name == "" {
		return models.NewValidationError("genre name is required", nil)
	}
	return mapSQLiteError(s.store.mapper.Insert(ctx, g), fmt.Sprintf("genre %s already exists", g.Name))
}

// GetGenreByName returns the genre called name.
func (s *GenreStore) GetGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	g, err := genreByName(ctx, s.store, s.store.schema.genres, name)
	if err != nil {
		return nil, fmt.Errorf("genre %s: %w", name, err)
	}
	if g == nil {
		return nil, fmt.Errorf("genre %s: %w", name, models.ErrNotFound)
	}
	return g, nil
}

// ListGenres returns every genre ordered by name.
func (s *GenreStore) ListGenres(ctx context.Context) ([]*models.Genre, error) {
	genres, err := orm.Select[models.Genre](ctx, s.store, s.store.schema.genres, "ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// GenresOfFilm returns the genres a film belongs to, ordered by name.
func (s *GenreStore) GenresOfFilm(ctx context.Context, filmID int64) ([]*models.Genre, error) {
	const query = `
		SELECT genre.id, genre.name
		  FROM genre
		  JOIN belongs_to_genre ON genre.id = belongs_to_genre.genre
		 WHERE belongs_to_genre.film = ?
		 ORDER BY genre.name`

	rows, err := s.store.QueryContext(ctx, query, filmID)
	if err != nil {
		return nil, fmt.Errorf("genres of film %d: %w", filmID, err)
	}
	defer rows.Close()

	genres := []*models.Genre{}
	for rows.Next() {
		g := &models.Genre{}
		if err := s.store.schema.genres.Scan(rows, g); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// AddFilmToGenre records that the film belongs to the genre.
func (s *GenreStore) AddFilmToGenre(ctx context.Context, filmID, genreID int64) error {
	b := &models.BelongsToGenre{FilmID: filmID, GenreID: genreID}
	return mapSQLiteError(s.store.mapper.Insert(ctx, b), "could not add film to genre")
}

// RemoveFilmFromGenre deletes the film's membership in the genre.
func (s *GenreStore) RemoveFilmFromGenre(ctx context.Context, filmID, genreID int64) error {
	b := &models.BelongsToGenre{FilmID: filmID, GenreID: genreID}
	return mapSQLiteError(s.store.mapper.Delete(ctx, b), "could not remove film from genre")
}

// ImportGenres reads rows with columns film and name. Genres are created the
// first time their name appears; every row adds one membership.
func (s *GenreStore) ImportGenres(ctx context.Context, q orm.Querier, src *seed.Source) (int, error) {
	if src == nil {
		return 0, nil
	}
	genres := s.store.schema.genres
	ids := make(map[string]int64)

	for i, row := range src.Rows {
		filmID, name, err := seed.ParseMembership(row)
		if err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}

		id, ok := ids[name]
		if !ok {
			g, err := genreByName(ctx, q, genres, name)
			if err != nil {
				return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
			}
			if g == nil {
				g = &models.Genre{Name: name}
				if err := genres.Insert(ctx, q, g); err != nil {
					return i, fmt.Errorf("%s row %d: genre %s: %w", src.Name, i+1, name, err)
				}
			}
			id = g.ID
			ids[name] = id
		}

		b := &models.BelongsToGenre{FilmID: filmID, GenreID: id}
		if err := s.store.schema.belongs.Insert(ctx, q, b); err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
	}
	return len(src.Rows), nil
}

// genreByName returns nil without error when no genre is called name.
func genreByName(ctx context.Context, q orm.Querier, genres *orm.Table, name string) (*models.Genre, error) {
	found, err := orm.Select[models.Genre](ctx, q, genres, "WHERE name = ?", name)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}
