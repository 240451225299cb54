// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/cinedb/pkg/models"
)

// GenreStore provides genre and genre membership operations using GORM.
type GenreStore struct {
	db *gorm.DB
}

// NewGenreStore creates a new genre store.
func NewGenreStore(store *Store) *GenreStore {
	return &GenreStore{db: store.DB}
}

// CreateGenre stores g and fills g.ID.
func (s *GenreStore) CreateGenre(ctx context.Context, g *models.Genre) error {
	if g.ID != 0 {
		return fmt.Errorf("create genre: %w", models.ErrAlreadyStored)
	}
	if g.Name == "" {
		return models.NewValidationError("genre name is required", nil)
	}
	row := &Genre{Name: g.Name}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return mapGormError(err, fmt.Sprintf("genre %s already exists", g.Name))
	}
	g.ID = row.ID
	return nil
}

// GetGenreByName returns the genre called name.
func (s *GenreStore) GetGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	var row Genre
	if err := s.db.WithContext(ctx).Where("name = ?", name).Take(&row).Error; err != nil {
		return nil, mapGormError(err, "genre "+name)
	}
	return &models.Genre{ID: row.ID, Name: row.Name}, nil
}

// ListGenres returns every genre ordered by name.
func (s *GenreStore) ListGenres(ctx context.Context) ([]*models.Genre, error) {
	var rows []Genre
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return toModelGenres(rows), nil
}

// GenresOfFilm returns the genres a film belongs to, ordered by name.
func (s *GenreStore) GenresOfFilm(ctx context.Context, filmID int64) ([]*models.Genre, error) {
	var rows []Genre
	err := s.db.WithContext(ctx).
		Joins("JOIN belongs_to_genre ON genre.id = belongs_to_genre.genre").
		Where("belongs_to_genre.film = ?", filmID).
		Order("genre.name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("genres of film %d: %w", filmID, err)
	}
	return toModelGenres(rows), nil
}

// AddFilmToGenre records that the film belongs to the genre.
func (s *GenreStore) AddFilmToGenre(ctx context.Context, filmID, genreID int64) error {
	row := &BelongsToGenre{FilmID: filmID, GenreID: genreID}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
	return mapGormError(err, "could not add film to genre")
}

// RemoveFilmFromGenre deletes the film's membership in the genre.
func (s *GenreStore) RemoveFilmFromGenre(ctx context.Context, filmID, genreID int64) error {
	result := s.db.WithContext(ctx).
		Where("film = ? AND genre = ?", filmID, genreID).
		Delete(&BelongsToGenre{})
	return affected(result, "could not remove film from genre")
}
