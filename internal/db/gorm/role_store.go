// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/cinedb/pkg/models"
)

// RoleStore provides film credit operations using GORM.
type RoleStore struct {
	db *gorm.DB
}

// NewRoleStore creates a new role store.
func NewRoleStore(store *Store) *RoleStore {
	return &RoleStore{db: store.DB}
}

func checkRoleType(r *models.Role) error {
	if !r.Type.Valid() {
		return models.NewValidationError(fmt.Sprintf("unknown role type %q", r.Type), nil)
	}
	return nil
}

// roleKey restricts a query to the credit r identifies.
func roleKey(tx *gorm.DB, r *models.Role) *gorm.DB {
	return tx.Where("film = ? AND person = ? AND type = ?", r.FilmID, r.PersonID, r.Type)
}

// AddRole credits a person on a film. The film's (type, position) slot must
// be free and both the film and the person must exist.
func (s *RoleStore) AddRole(ctx context.Context, r *models.Role) error {
	if err := checkRoleType(r); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(fromModelRole(r)).Error
	return mapGormError(err, "could not add role")
}

// UpdateRole moves an existing credit to r.Position.
func (s *RoleStore) UpdateRole(ctx context.Context, r *models.Role) error {
	if err := checkRoleType(r); err != nil {
		return err
	}
	result := roleKey(s.db.WithContext(ctx).Model(&Role{}), r).Update("position", r.Position)
	return affected(result, "could not update role")
}

// RemoveRole deletes a credit.
func (s *RoleStore) RemoveRole(ctx context.Context, r *models.Role) error {
	result := roleKey(s.db.WithContext(ctx), r).Delete(&Role{})
	return affected(result, "could not remove role")
}
