// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/thebtf/cinedb/pkg/models"
)

// PersonStore provides person-related database operations using GORM.
type PersonStore struct {
	db *gorm.DB
}

// NewPersonStore creates a new person store.
func NewPersonStore(store *Store) *PersonStore {
	return &PersonStore{db: store.DB}
}

// CreatePerson stores p and fills p.ID.
func (s *PersonStore) CreatePerson(ctx context.Context, p *models.Person) error {
	if p.ID != 0 {
		return fmt.Errorf("could not add person: %w", models.ErrAlreadyStored)
	}
	row := &Person{Name: p.Name}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return mapGormError(err, "could not add person")
	}
	p.ID = row.ID
	return nil
}

// UpdatePerson rewrites a stored person.
func (s *PersonStore) UpdatePerson(ctx context.Context, p *models.Person) error {
	if p.ID == 0 {
		return fmt.Errorf("could not update person: %w", models.ErrNotStored)
	}
	result := s.db.WithContext(ctx).
		Model(&Person{}).
		Where("id = ?", p.ID).
		Update("name", p.Name)
	return affected(result, "could not update person")
}

// DeletePerson removes a stored person without roles and clears p.ID.
func (s *PersonStore) DeletePerson(ctx context.Context, p *models.Person) error {
	if p.ID == 0 {
		return fmt.Errorf("could not delete person: %w", models.ErrNotStored)
	}
	result := s.db.WithContext(ctx).Where("id = ?", p.ID).Delete(&Person{})
	if err := affected(result, "could not delete person"); err != nil {
		return err
	}
	p.ID = 0
	return nil
}

// GetPersonByID returns the person with id.
func (s *PersonStore) GetPersonByID(ctx context.Context, id int64) (*models.Person, error) {
	var row Person
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, mapGormError(err, fmt.Sprintf("person %d", id))
	}
	return &models.Person{ID: row.ID, Name: row.Name}, nil
}

// SearchPeople returns people whose name contains substr.
func (s *PersonStore) SearchPeople(ctx context.Context, substr string) ([]*models.Person, error) {
	var rows []Person
	err := s.db.WithContext(ctx).
		Where("name LIKE ?", "%"+substr+"%").
		Order("name, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	return toModelPeople(rows), nil
}

// filmographyRow is one credited film of a person.
type filmographyRow struct {
	Title    string
	Type     models.RoleType
	ID       int64
	Year     int
	Position int
}

// Filmography returns every role of the person ordered by film year. The
// credited films carry only id, title and year.
func (s *PersonStore) Filmography(ctx context.Context, personID int64) ([]*models.Credit, error) {
	person, err := s.GetPersonByID(ctx, personID)
	if err != nil {
		return nil, err
	}

	var rows []filmographyRow
	err = s.db.WithContext(ctx).
		Table("film").
		Select("film.id, film.title, film.year, role.type, role.position").
		Joins("JOIN role ON film.id = role.film").
		Where("role.person = ?", personID).
		Order("film.year, film.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("filmography of person %d: %w", personID, err)
	}

	credits := make([]*models.Credit, len(rows))
	for i, r := range rows {
		credits[i] = &models.Credit{
			Film:     models.Film{ID: r.ID, Title: r.Title, Year: r.Year},
			Person:   *person,
			Type:     r.Type,
			Position: r.Position,
		}
	}
	return credits, nil
}
