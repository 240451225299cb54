package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebtf/cinedb/pkg/models"
)

func TestUserStore_CreateAndLogin(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	micka := &models.User{Username: "micka"}
	require.NoError(t, c.CreateUser(ctx, micka, "geselce"))
	assert.NotZero(t, micka.ID)
	assert.NotEmpty(t, micka.PasswordHash)

	got, err := c.Login(ctx, "micka", "geselce")
	require.NoError(t, err)
	assert.Equal(t, micka.ID, got.ID)
	assert.Equal(t, "micka", got.Username)
	assert.Nil(t, got.PasswordHash)
	assert.True(t, got.Exists())
}

func TestUserStore_LoginFailsClosed(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "janez", "geselce"},
		{"wrong password", "micka", "geslo"},
		{"empty password", "micka", ""},
		{"no password hash", "guest", ""},
		{"no password hash with guess", "guest", "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := c.Login(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, models.NoUser, u)
			assert.False(t, u.Exists())
		})
	}

	admin, err := c.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, admin.Admin)
}

func TestUserStore_CreateValidation(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.CreateUser(ctx, &models.User{Username: "micka"}, "a"))

	dup := &models.User{Username: "micka"}
	err := c.CreateUser(ctx, dup, "b")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "username already exists")
	assert.Zero(t, dup.ID)
	assert.Nil(t, dup.PasswordHash)

	err = c.CreateUser(ctx, &models.User{}, "x")
	assert.ErrorIs(t, err, models.ErrValidation)

	err = c.CreateUser(ctx, &models.User{Username: "nopass"}, "")
	assert.ErrorIs(t, err, models.ErrValidation)

	err = c.CreateUser(ctx, &models.User{ID: 5, Username: "stored"}, "x")
	assert.ErrorIs(t, err, models.ErrAlreadyStored)
}

func TestUserStore_GetUserByID(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	u := &models.User{Username: "root", Admin: true}
	require.NoError(t, c.CreateUser(ctx, u, "toor"))

	got, err := c.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: u.ID, Username: "root", Admin: true}, got)

	missing, err := c.GetUserByID(ctx, u.ID+100)
	require.NoError(t, err)
	assert.Equal(t, models.NoUser, missing)
}

func TestUserStore_ChangePassword(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	u := &models.User{Username: "micka"}
	require.NoError(t, c.CreateUser(ctx, u, "old"))
	require.NoError(t, c.ChangePassword(ctx, u, "new"))

	got, err := c.Login(ctx, "micka", "old")
	require.NoError(t, err)
	assert.False(t, got.Exists())

	got, err = c.Login(ctx, "micka", "new")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	err = c.ChangePassword(ctx, &models.User{Username: "ghost"}, "x")
	assert.ErrorIs(t, err, models.ErrNotStored)

	err = c.ChangePassword(ctx, &models.User{ID: 999}, "x")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
