package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/thebtf/cinedb/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// seedDir is the CSV fixture shared with the seed package.
var seedDir = filepath.Join("..", "..", "seed", "testdata")

// testStore opens a fresh database file in a temporary directory.
func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(StoreConfig{
		Path:         filepath.Join(t.TempDir(), "test.sqlite"),
		PasswordCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// testCatalog returns an empty catalog with the schema in place.
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(testStore(t))
}

// seededCatalog returns a catalog built from the seed fixture.
func seededCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := testCatalog(t)
	if _, err := c.Build(context.Background(), db.BuildOptions{SeedDir: seedDir}); err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}
