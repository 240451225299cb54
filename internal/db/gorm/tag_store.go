// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/cinedb/pkg/models"
)

// TagStore provides rating tag operations using GORM.
type TagStore struct {
	db *gorm.DB
}

// NewTagStore creates a new tag store.
func NewTagStore(store *Store) *TagStore {
	return &TagStore{db: store.DB}
}

// ListTags returns every tag ordered by code.
func (s *TagStore) ListTags(ctx context.Context) ([]*models.Tag, error) {
	var rows []Tag
	if err := s.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	tags := make([]*models.Tag, len(rows))
	for i, r := range rows {
		tags[i] = &models.Tag{Code: r.Code}
	}
	return tags, nil
}

// CountTags returns the number of tags.
func (s *TagStore) CountTags(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Tag{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return int(n), nil
}

// CreateTag stores t.
func (s *TagStore) CreateTag(ctx context.Context, t *models.Tag) error {
	if t.Code == "" {
		return models.NewValidationError("tag code is required", nil)
	}
	err := s.db.WithContext(ctx).Create(&Tag{Code: t.Code}).Error
	return mapGormError(err, fmt.Sprintf("tag %s already exists", t.Code))
}

// DeleteTag removes t. Tags still used by films cannot be deleted.
func (s *TagStore) DeleteTag(ctx context.Context, t *models.Tag) error {
	result := s.db.WithContext(ctx).Where("code = ?", t.Code).Delete(&Tag{})
	return affected(result, fmt.Sprintf("delete tag %s", t.Code))
}

// ensureTags inserts every code that is not in the tag table yet, using
// INSERT ... ON CONFLICT DO NOTHING.
func ensureTags(tx *gorm.DB, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	rows := make([]Tag, len(codes))
	for i, code := range codes {
		rows[i] = Tag{Code: code}
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&rows).Error
}
