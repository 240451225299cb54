package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/pkg/models"
)

// TagStore provides rating tag operations.
type TagStore struct {
	store *Store
}

// NewTagStore creates a new tag store.
func NewTagStore(store *Store) *TagStore {
	return &TagStore{store: store}
}

// ListTags returns every tag ordered by code.
func (s *TagStore) ListTags(ctx context.Context) ([]*models.Tag, error) {
	tags, err := orm.Select[models.Tag](ctx, s.store, s.store.schema.tags, "ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// CountTags returns the number of tags.
func (s *TagStore) CountTags(ctx context.Context) (int, error) {
	var n int
	if err := s.store.QueryRowContext(ctx, `SELECT COUNT(*) FROM tag`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

// CreateTag stores t.
func (s *TagStore) CreateTag(ctx context.Context, t *models.Tag) error {
	if t.Code == "" {
		return models.NewValidationError("tag code is required", nil)
	}
	return mapSQLiteError(s.store.mapper.Insert(ctx, t), fmt.Sprintf("tag %s already exists", t.Code))
}

// DeleteTag removes t. Tags still used by films cannot be deleted.
func (s *TagStore) DeleteTag(ctx context.Context, t *models.Tag) error {
	return mapSQLiteError(s.store.mapper.Delete(ctx, t), fmt.Sprintf("delete tag %s", t.Code))
}

// ensureTag inserts code into the tag table unless it is already there.
func ensureTag(ctx context.Context, q orm.Querier, tags *orm.Table, code string) error {
	err := tags.Get(ctx, q, &models.Tag{Code: code})
	if errors.Is(err, orm.ErrNotFound) {
		return tags.Insert(ctx, q, &models.Tag{Code: code})
	}
	return err
}
