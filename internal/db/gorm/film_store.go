// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/cinedb/pkg/models"
)

// DefaultBestLimit is the number of films BestInYear returns for a
// non-positive limit.
const DefaultBestLimit = 10

// FilmStore provides film-related database operations using GORM.
type FilmStore struct {
	db *gorm.DB
}

// NewFilmStore creates a new film store.
func NewFilmStore(store *Store) *FilmStore {
	return &FilmStore{db: store.DB}
}

// CreateFilm stores f and fills f.ID.
func (s *FilmStore) CreateFilm(ctx context.Context, f *models.Film) error {
	if f.ID != 0 {
		return fmt.Errorf("could not add film: %w", models.ErrAlreadyStored)
	}
	row := fromModelFilm(f)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return mapGormError(err, "could not add film")
	}
	f.ID = row.ID
	return nil
}

// UpdateFilm rewrites every column of a stored film.
func (s *FilmStore) UpdateFilm(ctx context.Context, f *models.Film) error {
	if f.ID == 0 {
		return fmt.Errorf("could not update film: %w", models.ErrNotStored)
	}
	row := fromModelFilm(f)
	result := s.db.WithContext(ctx).
		Model(row).
		Select("*").
		Omit(clause.Associations, "id").
		Updates(row)
	return affected(result, "could not update film")
}

// DeleteFilm removes a stored film and clears f.ID. Films that still have
// roles or genres cannot be deleted.
func (s *FilmStore) DeleteFilm(ctx context.Context, f *models.Film) error {
	if f.ID == 0 {
		return fmt.Errorf("could not delete film: %w", models.ErrNotStored)
	}
	result := s.db.WithContext(ctx).Where("id = ?", f.ID).Delete(&Film{})
	if err := affected(result, "could not delete film"); err != nil {
		return err
	}
	f.ID = 0
	return nil
}

// GetFilmByID returns the film with id.
func (s *FilmStore) GetFilmByID(ctx context.Context, id int64) (*models.Film, error) {
	var row Film
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, mapGormError(err, fmt.Sprintf("film %d", id))
	}
	return toModelFilm(&row), nil
}

// BestInYear returns the limit highest rated films released in year.
func (s *FilmStore) BestInYear(ctx context.Context, year, limit int) ([]*models.Film, error) {
	if limit <= 0 {
		limit = DefaultBestLimit
	}
	var rows []Film
	err := s.db.WithContext(ctx).
		Where("year = ?", year).
		Order("rating DESC, id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("best films of %d: %w", year, err)
	}
	return toModelFilms(rows), nil
}

// castRow is one line of a cast list.
type castRow struct {
	Name     string
	Type     models.RoleType
	ID       int64
	Position int
}

// Cast returns everybody credited on the film, directors first, each group
// in credited order.
func (s *FilmStore) Cast(ctx context.Context, filmID int64) ([]*models.Credit, error) {
	film, err := s.GetFilmByID(ctx, filmID)
	if err != nil {
		return nil, err
	}

	var rows []castRow
	err = s.db.WithContext(ctx).
		Table("person").
		Select("person.id, person.name, role.type, role.position").
		Joins("JOIN role ON person.id = role.person").
		Where("role.film = ?", filmID).
		Order("role.type DESC, role.position").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("cast of film %d: %w", filmID, err)
	}

	credits := make([]*models.Credit, len(rows))
	for i, r := range rows {
		credits[i] = &models.Credit{
			Film:     *film,
			Person:   models.Person{ID: r.ID, Name: r.Name},
			Type:     r.Type,
			Position: r.Position,
		}
	}
	return credits, nil
}
