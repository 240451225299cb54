package sqlite

import (
	"context"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/pkg/models"
)

// schema is the catalog's table registry and its tables, in creation order.
type schema struct {
	registry *orm.Registry

	users   *orm.Table
	tags    *orm.Table
	films   *orm.Table
	people  *orm.Table
	genres  *orm.Table
	roles   *orm.Table
	belongs *orm.Table
}

func newSchema() *schema {
	reg := orm.NewRegistry()
	return &schema{
		registry: reg,
		users:    orm.Must(reg.Entity(models.User{})),
		tags:     orm.Must(reg.Entity(models.Tag{})),
		films:    orm.Must(reg.Entity(models.Film{})),
		people:   orm.Must(reg.Entity(models.Person{})),
		genres:   orm.Must(reg.Entity(models.Genre{})),
		roles:    orm.Must(reg.Relation(models.Role{}, orm.WithUnique("film", "type", "position"))),
		belongs:  orm.Must(reg.Relation(models.BelongsToGenre{})),
	}
}

// catalogIndexes back the report queries. Dropping a table drops its indexes,
// so they are recreated together with the tables.
var catalogIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_film_year_rating ON film (year, rating DESC)",
	"CREATE INDEX IF NOT EXISTS idx_role_person ON role (person)",
	"CREATE INDEX IF NOT EXISTS idx_belongs_to_genre_genre ON belongs_to_genre (genre)",
}

// create creates every missing table and index.
func (s *schema) create(ctx context.Context, q orm.Querier) error {
	if err := s.registry.CreateAll(ctx, q, true); err != nil {
		return err
	}
	return createIndexes(ctx, q)
}

func createIndexes(ctx context.Context, q orm.Querier) error {
	for _, stmt := range catalogIndexes {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
