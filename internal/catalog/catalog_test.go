package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/thebtf/cinedb/internal/config"
	"github.com/thebtf/cinedb/internal/db"
	gormdb "github.com/thebtf/cinedb/internal/db/gorm"
	"github.com/thebtf/cinedb/internal/db/sqlite"
)

func TestOpen_Backends(t *testing.T) {
	tests := []struct {
		backend string
		check   func(t *testing.T, c db.Catalog)
	}{
		{config.BackendMapper, func(t *testing.T, c db.Catalog) {
			_, ok := c.(*sqlite.Catalog)
			assert.True(t, ok, "got %T", c)
		}},
		{config.BackendGorm, func(t *testing.T, c db.Catalog) {
			_, ok := c.(*gormdb.Catalog)
			assert.True(t, ok, "got %T", c)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := config.Default()
			cfg.Backend = tt.backend
			cfg.PasswordCost = 4
			cfg.DBPath = filepath.Join(t.TempDir(), "nested", "cinedb.sqlite")

			c, err := Open(cfg)
			require.NoError(t, err)
			defer c.Close()
			tt.check(t, c)

			report, err := c.Build(context.Background(), db.BuildOptions{SeedDir: "../seed/testdata"})
			require.NoError(t, err)
			assert.Equal(t, int64(6), report.Rows("film"))
			require.NoError(t, c.Ping(context.Background()))
		})
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "postgres"
	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel("debug"))
	assert.Equal(t, logger.Warn, gormLogLevel("warn"))
	assert.Equal(t, logger.Silent, gormLogLevel("info"))
}

func TestOpen_ProcessConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = config.BackendGorm
	cfg.PasswordCost = 4
	cfg.DBPath = filepath.Join(t.TempDir(), "process.sqlite")
	config.Set(cfg)
	t.Cleanup(func() { config.Set(nil) })

	c, err := Open(nil)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.(*gormdb.Catalog)
	assert.True(t, ok, "got %T", c)
	assert.FileExists(t, cfg.DBPath)
}
