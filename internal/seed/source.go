// Package seed reads the CSV files the catalog database is built from.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Seed file names, one per imported table.
const (
	UserFile   = "user.csv"
	FilmFile   = "film.csv"
	PersonFile = "person.csv"
	RoleFile   = "role.csv"
	GenreFile  = "genre.csv"
)

// Files lists the seed files in import order.
var Files = []string{UserFile, FilmFile, PersonFile, RoleFile, GenreFile}

// Source is one parsed seed file.
type Source struct {
	Name   string
	Header []string
	Rows   []Row
}

// Len returns the number of data rows.
func (s *Source) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Read parses the CSV file at path.
func Read(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	src, err := ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Name = filepath.Base(path)
	return src, nil
}

// ReadFrom parses CSV data whose first record is the header. Each following
// record becomes a Row keyed by header name.
func ReadFrom(r io.Reader) (*Source, error) {
	rd := csv.NewReader(r)

	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}

	src := &Source{Header: header}
	for {
		record, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		src.Rows = append(src.Rows, row)
	}
	return src, nil
}

// LoadAll reads the named files from dir concurrently. Files that do not
// exist are skipped and have no entry in the result.
func LoadAll(ctx context.Context, dir string, names ...string) (map[string]*Source, error) {
	sources := make([]*Source, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, name)
			src, err := Read(path)
			if errors.Is(err, os.ErrNotExist) {
				log.Debug().Str("file", path).Msg("Seed file not found, skipping")
				return nil
			}
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Source, len(names))
	for i, src := range sources {
		if src != nil {
			out[names[i]] = src
		}
	}
	return out, nil
}
