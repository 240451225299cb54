package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, ".cinedb", "cinedb.sqlite"), cfg.DBPath)
	assert.Equal(t, BackendMapper, cfg.Backend)
	assert.Equal(t, "data", cfg.SeedDir)
	assert.Equal(t, DefaultPasswordCost, cfg.PasswordCost)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, BackendMapper, cfg.Backend)
}

func TestLoad_JSON(t *testing.T) {
	path := writeSettings(t, "settings.json", `{
  "CINEDB_DB_PATH": "/tmp/films.sqlite",
  "CINEDB_BACKEND": "GORM",
  "CINEDB_PASSWORD_COST": 4,
  "CINEDB_UNKNOWN": true
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/films.sqlite", cfg.DBPath)
	assert.Equal(t, BackendGorm, cfg.Backend)
	assert.Equal(t, 4, cfg.PasswordCost)
	assert.Equal(t, "data", cfg.SeedDir)
}

func TestLoad_YAML(t *testing.T) {
	path := writeSettings(t, "settings.yaml", `
CINEDB_SEED_DIR: ./podatki
CINEDB_LOG_LEVEL: Debug
CINEDB_PASSWORD_COST: 6
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./podatki", cfg.SeedDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 6, cfg.PasswordCost)
}

func TestLoad_TagKeys(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"settings.json", `{"db_path": "/tmp/tags.sqlite", "backend": "gorm", "seed_dir": "csv", "log_level": "WARN", "password_cost": 5}`},
		{"settings.yaml", "db_path: /tmp/tags.sqlite\nbackend: gorm\nseed_dir: csv\nlog_level: WARN\npassword_cost: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := Load(writeSettings(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "/tmp/tags.sqlite", cfg.DBPath)
			assert.Equal(t, BackendGorm, cfg.Backend)
			assert.Equal(t, "csv", cfg.SeedDir)
			assert.Equal(t, "warn", cfg.LogLevel)
			assert.Equal(t, 5, cfg.PasswordCost)
		})
	}
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	path := writeSettings(t, "settings.json", `{"db_path": "/tag.sqlite", "CINEDB_DB_PATH": "/prefixed.sqlite"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/prefixed.sqlite", cfg.DBPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeSettings(t, "settings.json", `{"CINEDB_DB_PATH": "/from/file.sqlite", "CINEDB_PASSWORD_COST": 12}`)
	t.Setenv("CINEDB_DB_PATH", "/from/env.sqlite")
	t.Setenv("CINEDB_PASSWORD_COST", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.sqlite", cfg.DBPath)
	assert.Equal(t, 5, cfg.PasswordCost)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"bad json", "settings.json", `{"CINEDB_BACKEND":`, "parse settings"},
		{"bad yaml", "settings.yml", "CINEDB_BACKEND: [", "parse settings"},
		{"unknown backend", "settings.json", `{"CINEDB_BACKEND": "postgres"}`, "unknown backend"},
		{"cost too high", "settings.json", `{"CINEDB_PASSWORD_COST": 40}`, "password cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSettings(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DBPath = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PasswordCost = 3
	assert.Error(t, cfg.Validate())
}

func TestEnsureDataDir(t *testing.T) {
	cfg := Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "nested", "dir", "cinedb.sqlite")
	require.NoError(t, cfg.EnsureDataDir())

	info, err := os.Stat(filepath.Dir(cfg.DBPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSetGet(t *testing.T) {
	cfg := Default()
	cfg.SeedDir = "custom"
	Set(cfg)
	assert.Same(t, cfg, Get())
}
