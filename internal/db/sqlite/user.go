package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/password"
	"github.com/thebtf/cinedb/internal/seed"
	"github.com/thebtf/cinedb/pkg/models"
)

// UserStore provides user-related database operations.
type UserStore struct {
	store *Store
}

// NewUserStore creates a new user store.
func NewUserStore(store *Store) *UserStore {
	return &UserStore{store: store}
}

// CreateUser hashes password and stores u, filling u.ID.
func (s *UserStore) CreateUser(ctx context.Context, u *models.User, plain string) error {
	if u.ID != 0 {
		return fmt.Errorf("create user: %w", models.ErrAlreadyStored)
	}
	if u.Username == "" {
		return models.NewValidationError("username is required", nil)
	}
	hash, err := password.Hash(plain, s.store.passwordCost)
	if err != nil {
		return models.NewValidationError("invalid password", err)
	}

	u.PasswordHash = hash
	if err := s.store.mapper.Insert(ctx, u); err != nil {
		u.PasswordHash = nil
		return mapSQLiteError(err, "username already exists")
	}
	return nil
}

// Login returns the user matching username and password. Unknown users,
// users without a password and wrong passwords all yield models.NoUser.
func (s *UserStore) Login(ctx context.Context, username, plain string) (models.User, error) {
	users, err := orm.Select[models.User](ctx, s.store, s.store.schema.users, "WHERE username = ?", username)
	if err != nil {
		return models.NoUser, fmt.Errorf("login: %w", err)
	}
	if len(users) == 0 {
		return models.NoUser, nil
	}

	u := *users[0]
	if !password.Check(u.PasswordHash, plain) {
		return models.NoUser, nil
	}
	u.PasswordHash = nil
	return u, nil
}

// GetUserByID returns the user with id, or models.NoUser if there is none.
func (s *UserStore) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT id, username, admin FROM user WHERE id = ?`

	var u models.User
	err := s.store.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NoUser, nil
	}
	if err != nil {
		return models.NoUser, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// ChangePassword replaces the password of a stored user.
func (s *UserStore) ChangePassword(ctx context.Context, u *models.User, plain string) error {
	if u.ID == 0 {
		return fmt.Errorf("change password: %w", models.ErrNotStored)
	}
	hash, err := password.Hash(plain, s.store.passwordCost)
	if err != nil {
		return models.NewValidationError("invalid password", err)
	}

	err = s.store.mapper.InTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE user SET password_hash = ? WHERE id = ?`, hash, u.ID)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return orm.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return mapSQLiteError(err, "change password")
	}
	u.PasswordHash = hash
	return nil
}

// ImportUsers inserts users from rows with columns username, admin and
// password. An empty password leaves the account without a hash.
func (s *UserStore) ImportUsers(ctx context.Context, q orm.Querier, src *seed.Source) (int, error) {
	if src == nil {
		return 0, nil
	}
	for i, row := range src.Rows {
		rec, err := seed.ParseUser(row)
		if err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
		u := rec.User
		if rec.Password != "" {
			hash, err := password.Hash(rec.Password, s.store.passwordCost)
			if err != nil {
				return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
			}
			u.PasswordHash = hash
		}
		if err := s.store.schema.users.Insert(ctx, q, &u); err != nil {
			return i, fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
		}
	}
	return len(src.Rows), nil
}
