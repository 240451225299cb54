package sqlite

import (
	"github.com/thebtf/cinedb/internal/db"
)

// Catalog bundles every catalog store over one Store.
type Catalog struct {
	*Store
	*UserStore
	*TagStore
	*FilmStore
	*PersonStore
	*GenreStore
	*RoleStore
}

var _ db.Catalog = (*Catalog)(nil)

// Open opens the database described by cfg and returns its catalog.
func Open(cfg StoreConfig) (*Catalog, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewCatalog(store), nil
}

// NewCatalog creates the catalog stores over store.
func NewCatalog(store *Store) *Catalog {
	return &Catalog{
		Store:       store,
		UserStore:   NewUserStore(store),
		TagStore:    NewTagStore(store),
		FilmStore:   NewFilmStore(store),
		PersonStore: NewPersonStore(store),
		GenreStore:  NewGenreStore(store),
		RoleStore:   NewRoleStore(store),
	}
}
