// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/cinedb/internal/db"
	"github.com/thebtf/cinedb/internal/password"
	"github.com/thebtf/cinedb/internal/seed"
)

// importBatchSize is the number of rows per INSERT during a build.
const importBatchSize = 100

type importFunc func(tx *gorm.DB, src *seed.Source) (int, error)

// Build creates the catalog tables and imports the seed files. Foreign key
// enforcement is switched off on the pinned connection for the duration so
// seed files can be imported in any order, and switched back on afterwards.
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

	var report *db.BuildReport
	err := c.Store.DB.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		// PRAGMA foreign_keys is a no-op inside a transaction.
		if err := conn.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
			return fmt.Errorf("disable foreign keys: %w", err)
		}
		defer func() {
			if err := conn.WithContext(context.Background()).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
				log.Error().Err(err).Msg("Failed to re-enable foreign keys")
			}
		}()

		err := conn.Transaction(func(tx *gorm.DB) error {
			return c.build(tx, opts.Reset, sources)
		})
		if err != nil {
			return err
		}

		report, err = countRows(conn)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Dur("took", time.Since(start)).Bool("reset", opts.Reset).Msg("Catalog built")
	return report, nil
}

func (c *Catalog) build(tx *gorm.DB, reset bool, sources map[string]*seed.Source) error {
	if reset {
		if err := tx.Migrator().DropTable(catalogModels()...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := createTables(tx); err != nil {
		return err
	}
	if err := createIndexes(tx); err != nil {
		return err
	}

	steps := []struct {
		file string
		run  importFunc
	}{
		{seed.UserFile, c.importUsers},
		{seed.FilmFile, importFilms},
		{seed.PersonFile, importPeople},
		{seed.RoleFile, importRoles},
		{seed.GenreFile, importGenres},
	}
	for _, step := range steps {
		src, ok := sources[step.file]
		if !ok {
			continue
		}
		n, err := step.run(tx, src)
		if err != nil {
			return mapGormError(err, "import "+step.file)
		}
		log.Debug().Str("file", step.file).Int("rows", n).Msg("Imported seed file")
	}

	return warnDanglingReferences(tx)
}

func rowError(src *seed.Source, i int, err error) error {
	return fmt.Errorf("%s row %d: %w", src.Name, i+1, err)
}

// createBatches inserts rows, skipping empty slices which GORM rejects.
func createBatches[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).CreateInBatches(rows, importBatchSize).Error
}

func (c *Catalog) importUsers(tx *gorm.DB, src *seed.Source) (int, error) {
	rows := make([]User, 0, src.Len())
	for i, row := range src.Rows {
		rec, err := seed.ParseUser(row)
		if err != nil {
			return i, rowError(src, i, err)
		}
		u := User{Username: rec.User.Username, Admin: rec.User.Admin}
		if rec.Password != "" {
			if u.PasswordHash, err = password.Hash(rec.Password, c.Store.passwordCost); err != nil {
				return i, rowError(src, i, err)
			}
		}
		rows = append(rows, u)
	}
	return len(rows), createBatches(tx, rows)
}

// importFilms inserts the films with their ids, after the tags they use.
func importFilms(tx *gorm.DB, src *seed.Source) (int, error) {
	rows := make([]Film, 0, src.Len())
	var tags []string
	seen := make(map[string]bool)
	for i, row := range src.Rows {
		f, err := seed.ParseFilm(row)
		if err != nil {
			return i, rowError(src, i, err)
		}
		if f.Tag != nil && !seen[*f.Tag] {
			seen[*f.Tag] = true
			tags = append(tags, *f.Tag)
		}
		rows = append(rows, *fromModelFilm(f))
	}
	if err := ensureTags(tx, tags); err != nil {
		return 0, fmt.Errorf("tags: %w", err)
	}
	return len(rows), createBatches(tx, rows)
}

func importPeople(tx *gorm.DB, src *seed.Source) (int, error) {
	rows := make([]Person, 0, src.Len())
	for i, row := range src.Rows {
		p, err := seed.ParsePerson(row)
		if err != nil {
			return i, rowError(src, i, err)
		}
		rows = append(rows, Person{ID: p.ID, Name: p.Name})
	}
	return len(rows), createBatches(tx, rows)
}

func importRoles(tx *gorm.DB, src *seed.Source) (int, error) {
	rows := make([]Role, 0, src.Len())
	for i, row := range src.Rows {
		r, err := seed.ParseRole(row)
		if err != nil {
			return i, rowError(src, i, err)
		}
		rows = append(rows, *fromModelRole(r))
	}
	return len(rows), createBatches(tx, rows)
}

// importGenres creates each genre the first time its name appears and adds
// one membership per row.
func importGenres(tx *gorm.DB, src *seed.Source) (int, error) {
	ids := make(map[string]int64)
	rows := make([]BelongsToGenre, 0, src.Len())
	for i, row := range src.Rows {
		filmID, name, err := seed.ParseMembership(row)
		if err != nil {
			return i, rowError(src, i, err)
		}

		id, ok := ids[name]
		if !ok {
			g := Genre{Name: name}
			err := tx.Where("name = ?", name).Take(&g).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = tx.Create(&g).Error
			}
			if err != nil {
				return i, fmt.Errorf("%s row %d: genre %s: %w", src.Name, i+1, name, err)
			}
			id = g.ID
			ids[name] = id
		}
		rows = append(rows, BelongsToGenre{FilmID: filmID, GenreID: id})
	}
	return len(rows), createBatches(tx, rows)
}

// warnDanglingReferences logs rows whose references were not satisfied by
// the import, which foreign key enforcement would otherwise have rejected.
func warnDanglingReferences(tx *gorm.DB) error {
	rows, err := tx.Raw("PRAGMA foreign_key_check").Rows()
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

func countRows(conn *gorm.DB) (*db.BuildReport, error) {
	report := &db.BuildReport{}
	for _, table := range catalogTables {
		var n int64
		if err := conn.Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		report.Tables = append(report.Tables, db.TableCount{Table: table, Rows: n})
	}
	return report, nil
}
