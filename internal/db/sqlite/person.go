package sqlite

import (
	"context"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/seed"
	"github.com/thebtf/cinedb/pkg/models"
)

// PersonStore provides person-related database operations.
type PersonStore struct {
	store *Store
}

// NewPersonStore creates a new person store.
func NewPersonStore(store *Store) *PersonStore {
	return &PersonStore{store: store}
}

// CreatePerson stores p and fills p.ID.
func (s *PersonStore) CreatePerson(ctx context.Context, p *models.Person) error {
	return mapSQLiteError(s.store.mapper.Insert(ctx, p), "could not add person")
}

// UpdatePerson rewrites a stored person.
func (s *PersonStore) UpdatePerson(ctx context.Context, p *models.Person) error {
	return mapSQLiteError(s.store.mapper.Update(ctx, p), "could not update person")
}

// DeletePerson removes a stored person without roles and clears p.ID.
func (s *PersonStore) DeletePerson(ctx context.Context, p *models.Person) error {
	return mapSQLiteError(s.store.mapper.Delete(ctx, p), "could not delete person")
}

// GetPersonByID returns the person with id.
func (s *PersonStore) GetPersonByID(ctx context.Context, id int64) (*models.Person, error) {
	p := &models.Person{ID: id}
	if err := s.store.mapper.Get(ctx, p); err != nil {
		return nil, mapSQLiteError(err, fmt.Sprintf("person %d", id))
	}
	return p, nil
}

// SearchPeople returns people whose name contains substr.
func (s *PersonStore) SearchPeople(ctx context.Context, substr string) ([]*models.Person, error) {
	people, err := orm.Select[models.Person](ctx, s.store, s.store.schema.people,
		"WHERE name LIKE ? ORDER BY name, id", "%"+substr+"%")
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	return people, nil
}

// Filmography returns every role of the person ordered by film year. The
// credited films carry only id, title and year.
func (s *PersonStore) Filmography(ctx context.Context, personID int64) ([]*models.Credit, error) {
	person, err := s.GetPersonByID(ctx, personID)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT film.id, film.title, film.year, role.type, role.position
		  FROM film
		  JOIN role ON film.id = role.film
		 WHERE role.person = ?
		 ORDER BY film.year, film.id`

	rows, err := s.store.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("filmography of person %d: %w", personID, err)
	}
	defer rows.Close()

	credits := []*models.Credit{}
	for rows.Next() {
		c := &models.Credit{Person: *person}
		if err := rows.Scan(&c.Film.ID, &c.Film.Title, &c.Film.Year, &c.Type, &c.Position); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}

// ImportPeople inserts people from rows with columns id and name.
func (s *PersonStore) ImportPeople(ctx context.Context, q orm.Querier, src *seed.Source) (int, error) {
	if src == nil {
		return 0, nil
	}
	for i, row := range src.Rows {
		p, err := seed.ParsePerson(row)
		if err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
		if err := s.store.schema.people.Import(ctx, q, p); err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
	}
	return len(src.Rows), nil
}
