// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/thebtf/cinedb/internal/password"
	"github.com/thebtf/cinedb/pkg/models"
)

// UserStore provides user-related database operations using GORM.
type UserStore struct {
	db   *gorm.DB
	cost int
}

// NewUserStore creates a new user store.
func NewUserStore(store *Store) *UserStore {
	return &UserStore{db: store.DB, cost: store.passwordCost}
}

// CreateUser hashes password and stores u, filling u.ID.
func (s *UserStore) CreateUser(ctx context.Context, u *models.User, plain string) error {
	if u.ID != 0 {
		return fmt.Errorf("create user: %w", models.ErrAlreadyStored)
	}
	if u.Username == "" {
		return models.NewValidationError("username is required", nil)
	}
	hash, err := password.Hash(plain, s.cost)
	if err != nil {
		return models.NewValidationError("invalid password", err)
	}

	row := &User{Username: u.Username, Admin: u.Admin, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return mapGormError(err, "username already exists")
	}
	u.ID = row.ID
	u.PasswordHash = hash
	return nil
}

// Login returns the user matching username and password. Unknown users,
// users without a password and wrong passwords all yield models.NoUser.
func (s *UserStore) Login(ctx context.Context, username, plain string) (models.User, error) {
	var row User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NoUser, nil
	}
	if err != nil {
		return models.NoUser, fmt.Errorf("login: %w", err)
	}

	if !password.Check(row.PasswordHash, plain) {
		return models.NoUser, nil
	}
	u := toModelUser(&row)
	u.PasswordHash = nil
	return u, nil
}

// GetUserByID returns the user with id, or models.NoUser if there is none.
func (s *UserStore) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var row User
	err := s.db.WithContext(ctx).
		Select("id", "username", "admin").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NoUser, nil
	}
	if err != nil {
		return models.NoUser, fmt.Errorf("get user %d: %w", id, err)
	}
	return toModelUser(&row), nil
}

// ChangePassword replaces the password of a stored user.
func (s *UserStore) ChangePassword(ctx context.Context, u *models.User, plain string) error {
	if u.ID == 0 {
		return fmt.Errorf("change password: %w", models.ErrNotStored)
	}
	hash, err := password.Hash(plain, s.cost)
	if err != nil {
		return models.NewValidationError("invalid password", err)
	}

	result := s.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", u.ID).
		Update("password_hash", hash)
	if err := affected(result, "change password"); err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}
