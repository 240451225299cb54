package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thebtf/cinedb/internal/db"
	"github.com/thebtf/cinedb/internal/orm"
	"github.com/thebtf/cinedb/internal/seed"
)

type importFunc func(ctx context.Context, q orm.Querier, src *seed.Source) (int, error)

// Build creates the catalog tables and imports the seed files. Foreign key
// enforcement is switched off on the connection for the duration so seed
// files can be imported in any order, and switched back on afterwards.
func (c *Catalog) Build(ctx context.Context, opts db.BuildOptions) (*db.BuildReport, error) {
	start := time.Now()

	var sources map[string]*seed.Source
	if opts.SeedDir != "" {
		var err error
		sources, err = seed.LoadAll(ctx, opts.SeedDir, seed.Files...)
		if err != nil {
			return nil, fmt.Errorf("load seed files: %w", err)
		}
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// PRAGMA foreign_keys is a no-op inside a transaction.
	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return nil, fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
			log.Error().Err(err).Msg("Failed to re-enable foreign keys")
		}
	}()

	if err := c.build(ctx, conn, opts.Reset, sources); err != nil {
		return nil, err
	}

	report, err := c.countRows(ctx, conn)
	if err != nil {
		return nil, err
	}
	log.Info().Dur("took", time.Since(start)).Bool("reset", opts.Reset).Msg("Catalog built")
	return report, nil
}

func (c *Catalog) build(ctx context.Context, conn *sql.Conn, reset bool, sources map[string]*seed.Source) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sch := c.schema
	if reset {
		if err := sch.registry.DropAll(ctx, tx); err != nil {
			return err
		}
	}
	if err := sch.create(ctx, tx); err != nil {
		return err
	}

	steps := []struct {
		file string
		run  importFunc
	}{
		{seed.UserFile, c.ImportUsers},
		{seed.FilmFile, c.ImportFilms},
		{seed.PersonFile, c.ImportPeople},
		{seed.RoleFile, c.ImportRoles},
		{seed.GenreFile, c.ImportGenres},
	}
	for _, step := range steps {
		src, ok := sources[step.file]
		if !ok {
			continue
		}
		n, err := step.run(ctx, tx, src)
		if err != nil {
			return mapSQLiteError(err, "import "+step.file)
		}
		log.Debug().Str("file", step.file).Int("rows", n).Msg("Imported seed file")
	}

	if err := warnDanglingReferences(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// warnDanglingReferences logs rows whose references were not satisfied by
// the import, which foreign key enforcement would otherwise have rejected.
func warnDanglingReferences(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	defer rows.Close()

	dangling := make(map[string]int)
	for rows.Next() {
		var (
			table, parent string
			rowid, fkid   sql.NullInt64
		)
		if err := rows.Scan(&table, &rowid, &parent, &fkid); err != nil {
			return fmt.Errorf("scan foreign key check: %w", err)
		}
		dangling[table+" -> "+parent]++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for ref, n := range dangling {
		log.Warn().Str("reference", ref).Int("rows", n).Msg("Imported rows reference missing records")
	}
	return nil
}

func (c *Catalog) countRows(ctx context.Context, conn *sql.Conn) (*db.BuildReport, error) {
	report := &db.BuildReport{}
	for _, t := range c.schema.registry.Tables() {
		var n int64
		if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.Name).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t.Name, err)
		}
		report.Tables = append(report.Tables, db.TableCount{Table: t.Name, Rows: n})
	}
	return report, nil
}
