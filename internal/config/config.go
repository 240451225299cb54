// Package config provides configuration management for cinedb.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	// BackendMapper stores the catalog through the reflection mapper on modernc SQLite.
	BackendMapper = "mapper"
	// BackendGorm stores the catalog through GORM.
	BackendGorm = "gorm"

	// DefaultPasswordCost is the bcrypt cost used for new password hashes.
	DefaultPasswordCost = 10

	envPrefix = "CINEDB_"
)

// Config holds the application configuration.
type Config struct {
	// Database settings
	DBPath  string `json:"db_path" yaml:"db_path"`
	Backend string `json:"backend" yaml:"backend"`

	// Seed settings
	SeedDir string `json:"seed_dir" yaml:"seed_dir"`

	LogLevel     string `json:"log_level" yaml:"log_level"`
	PasswordCost int    `json:"password_cost" yaml:"password_cost"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DataDir returns the data directory path (~/.cinedb).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cinedb")
}

// DBPath returns the default database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "cinedb.sqlite")
}

// SettingsPath returns the default settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the directory holding the database file.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(filepath.Dir(c.DBPath), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DBPath:       DBPath(),
		Backend:      BackendMapper,
		SeedDir:      "data",
		LogLevel:     "info",
		PasswordCost: DefaultPasswordCost,
	}
}

// Load reads the settings file at path (the default location when empty),
// merges it over the defaults and applies CINEDB_* environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = SettingsPath()
	}

	settings, err := readSettings(path)
	if err != nil {
		return nil, err
	}
	cfg.apply(settings)
	cfg.apply(envSettings())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readSettings loads a flat key/value settings file. Keys are either the
// CINEDB_* environment names or the lower-case Config tag names. Files ending in .yaml or
// .yml are parsed as YAML, anything else as JSON.
func readSettings(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var settings map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &settings)
	default:
		err = json.Unmarshal(data, &settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return settings, nil
}

// envSettings collects CINEDB_* environment variables.
func envSettings() map[string]interface{} {
	settings := make(map[string]interface{})
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, envPrefix) {
			settings[key] = value
		}
	}
	return settings
}

// setting returns the value stored under CINEDB_<KEY> or, failing that, the
// lower-case key used by the Config struct tags.
func setting(settings map[string]interface{}, key string) interface{} {
	if v, ok := settings[envPrefix+strings.ToUpper(key)]; ok {
		return v
	}
	return settings[key]
}

func (c *Config) apply(settings map[string]interface{}) {
	if v, ok := setting(settings, "db_path").(string); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := setting(settings, "backend").(string); ok && v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v, ok := setting(settings, "seed_dir").(string); ok && v != "" {
		c.SeedDir = v
	}
	if v, ok := setting(settings, "log_level").(string); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := number(setting(settings, "password_cost")); ok && v > 0 {
		c.PasswordCost = int(v)
	}
}

// number accepts the numeric shapes produced by the JSON and YAML decoders
// and numeric strings from the environment.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Validate checks that the configuration can be used to open a catalog.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db path is empty")
	}
	switch c.Backend {
	case BackendMapper, BackendGorm:
	default:
		return fmt.Errorf("config: unknown backend %q (want %s or %s)", c.Backend, BackendMapper, BackendGorm)
	}
	if c.PasswordCost < 4 || c.PasswordCost > 31 {
		return fmt.Errorf("config: password cost %d out of range 4-31", c.PasswordCost)
	}
	return nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		configMu.RLock()
		loaded := globalConfig != nil
		configMu.RUnlock()
		if loaded {
			return
		}
		cfg, err := Load("")
		if err != nil {
			cfg = Default()
		}
		Set(cfg)
	})

	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// Set replaces the global configuration.
func Set(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = cfg
}
