package sqlite

import (
	"context"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/seed"
	"github.com/thebtf/cinedb/pkg/models"
)

// RoleStore provides film credit operations.
type RoleStore struct {
	store *Store
}

// NewRoleStore creates a new role store.
func NewRoleStore(store *Store) *RoleStore {
	return &RoleStore{store: store}
}

func checkRoleType(r *models.Role) error {
	if !r.Type.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown role type %q", r.Type), nil)
	}
	return nil
}

// AddRole credits a person on a film. The film's (type, position) slot must
// be free and both the film and the person must exist.
func (s *RoleStore) AddRole(ctx context.Context, r *models.Role) error {
	if err := checkRoleType(r); err != nil {
		return err
	}
	return mapSQLiteError(s.store.mapper.Insert(ctx, r), "could not add role")
}

// UpdateRole moves an existing credit to r.Position.
func (s *RoleStore) UpdateRole(ctx context.Context, r *models.Role) error {
	if err := checkRoleType(r); err != nil {
		return err
	}
	return mapSQLiteError(s.store.mapper.Update(ctx, r), "could not update role")
}

// RemoveRole deletes a credit.
func (s *RoleStore) RemoveRole(ctx context.Context, r *models.Role) error {
	return mapSQLiteError(s.store.mapper.Delete(ctx, r), "could not remove role")
}

// ImportRoles inserts credits from rows with columns film, person, type and
// position. The type column takes role names or the codes I and R.
func (s *RoleStore) ImportRoles(ctx context.Context, q orm.Querier, src *seed.Source) (int, error) {
	if src == nil {
		return 0, nil
	}
	for i, row := range src.Rows {
		r, err := seed.ParseRole(row)
		if err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
		if err := s.store.schema.roles.Insert(ctx, q, r); err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
	}
	return len(src.Rows), nil
}
