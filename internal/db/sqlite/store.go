// Package sqlite stores the catalog in a single SQLite file through the
// reflection mapper in internal/orm.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/password"
	_ "modernc.org/sqlite"
)

// Store provides database operations over a single connection with prepared
// statement caching.
type Store struct {
	db        *sql.DB
	mapper    *orm.Mapper
	schema    *schema
	stmtCache map[string]*sql.Stmt
	stmtMu    sync.RWMutex

	passwordCost int
}

// StoreConfig holds configuration for the database store.
type StoreConfig struct {
	Path         string
	PasswordCost int
}

// DSN returns the modernc connection string for path with foreign keys on.
func DSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// NewStore opens the database file and applies pending schema migrations.
func NewStore(cfg StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite", DSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: PRAGMA foreign_keys is per connection and Build relies on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := newStoreFromDB(db, cfg.PasswordCost)

	mgr := NewMigrationManager(db, catalogMigrations(store.schema))
	if err := mgr.RunMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Debug().Str("path", cfg.Path).Msg("Opened catalog database")
	return store, nil
}

func newStoreFromDB(db *sql.DB, cost int) *Store {
	if cost == 0 {
		cost = password.DefaultCost
	}
	sch := newSchema()
	return &Store{
		db:           db,
		mapper:       orm.NewMapper(db, sch.registry, orm.WithConstraintClassifier(isConstraintError)),
		schema:       sch,
		stmtCache:    make(map[string]*sql.Stmt),
		passwordCost: cost,
	}
}

// Close closes the database connection and all cached statements.
func (s *Store) Close() error {
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	for _, stmt := range s.stmtCache {
		_ = stmt.Close()
	}
	s.stmtCache = nil

	return s.db.Close()
}

// GetStmt returns a cached prepared statement, creating it if necessary.
func (s *Store) GetStmt(ctx context.Context, query string) (*sql.Stmt, error) {
	s.stmtMu.RLock()
	stmt, ok := s.stmtCache[query]
	s.stmtMu.RUnlock()
	if ok {
		return stmt, nil
	}

	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	if stmt, ok := s.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	s.stmtCache[query] = stmt
	return stmt, nil
}

// ExecContext executes a query that doesn't return rows.
func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := s.GetStmt(ctx, query)
	if err != nil {
		return s.db.ExecContext(ctx, query, args...)
	}
	return stmt.ExecContext(ctx, args...)
}

// QueryContext executes a query that returns rows.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := s.GetStmt(ctx, query)
	if err != nil {
		return s.db.QueryContext(ctx, query, args...)
	}
	return stmt.QueryContext(ctx, args...)
}

// QueryRowContext executes a query that returns a single row.
func (s *Store) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	stmt, err := s.GetStmt(ctx, query)
	if err != nil {
		return s.db.QueryRowContext(ctx, query, args...)
	}
	return stmt.QueryRowContext(ctx, args...)
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB returns the underlying database connection for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Mapper returns the record mapper bound to the catalog schema.
func (s *Store) Mapper() *orm.Mapper {
	return s.mapper
}
