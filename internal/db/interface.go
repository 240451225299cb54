// Package db defines the catalog store interfaces shared by the storage backends.
package db

import (
	"context"

	"github.com/thebtf/cinedb/pkg/models"
)

// UserReader defines read operations for users. Lookups that match no
// account return models.NoUser and a nil error.
type UserReader interface {
	Login(ctx context.Context, username, password string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	CreateUser(ctx context.Context, u *models.User, password string) error
	ChangePassword(ctx context.Context, u *models.User, password string) error
}

// UserStore combines read and write operations for users.
type UserStore interface {
	UserReader
	UserWriter
}

// TagStore defines operations for rating tags.
type TagStore interface {
	ListTags(ctx context.Context) ([]*models.Tag, error)
	CountTags(ctx context.Context) (int, error)
	CreateTag(ctx context.Context, t *models.Tag) error
	DeleteTag(ctx context.Context, t *models.Tag) error
}

// FilmReader defines read operations for films.
type FilmReader interface {
	GetFilmByID(ctx context.Context, id int64) (*models.Film, error)
	BestInYear(ctx context.Context, year, limit int) ([]*models.Film, error)
	Cast(ctx context.Context, filmID int64) ([]*models.Credit, error)
}

// FilmWriter defines write operations for films.
type FilmWriter interface {
	CreateFilm(ctx context.Context, f *models.Film) error
	UpdateFilm(ctx context.Context, f *models.Film) error
	DeleteFilm(ctx context.Context, f *models.Film) error
}

// FilmStore combines read and write operations for films.
type FilmStore interface {
	FilmReader
	FilmWriter
}

// PersonReader defines read operations for people.
type PersonReader interface {
	GetPersonByID(ctx context.Context, id int64) (*models.Person, error)
	SearchPeople(ctx context.Context, substr string) ([]*models.Person, error)
	Filmography(ctx context.Context, personID int64) ([]*models.Credit, error)
}

// PersonWriter defines write operations for people.
type PersonWriter interface {
	CreatePerson(ctx context.Context, p *models.Person) error
	UpdatePerson(ctx context.Context, p *models.Person) error
	DeletePerson(ctx context.Context, p *models.Person) error
}

// PersonStore combines read and write operations for people.
type PersonStore interface {
	PersonReader
	PersonWriter
}

// GenreReader defines read operations for genres.
type GenreReader interface {
	GetGenreByName(ctx context.Context, name string) (*models.Genre, error)
	ListGenres(ctx context.Context) ([]*models.Genre, error)
	GenresOfFilm(ctx context.Context, filmID int64) ([]*models.Genre, error)
}

// GenreWriter defines write operations for genres and genre membership.
type GenreWriter interface {
	CreateGenre(ctx context.Context, g *models.Genre) error
	AddFilmToGenre(ctx context.Context, filmID, genreID int64) error
	RemoveFilmFromGenre(ctx context.Context, filmID, genreID int64) error
}

// GenreStore combines read and write operations for genres.
type GenreStore interface {
	GenreReader
	GenreWriter
}

// RoleStore defines write operations for film credits. Credits are read
// through FilmReader.Cast and PersonReader.Filmography.
type RoleStore interface {
	AddRole(ctx context.Context, r *models.Role) error
	UpdateRole(ctx context.Context, r *models.Role) error
	RemoveRole(ctx context.Context, r *models.Role) error
}

// BuildOptions controls Catalog.Build.
type BuildOptions struct {
	// Reset drops every catalog table before creating it again.
	Reset bool
	// SeedDir holds the CSV seed files. Missing files import nothing.
	SeedDir string
}

// TableCount is the number of rows in one table after a build.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// BuildReport lists row counts per table, in creation order.
type BuildReport struct {
	Tables []TableCount `json:"tables"`
}

// Rows returns the row count recorded for table, or -1 if it is absent.
func (r *BuildReport) Rows(table string) int64 {
	for _, tc := range r.Tables {
		if tc.Table == table {
			return tc.Rows
		}
	}
	return -1
}

// Catalog is the full set of catalog stores backed by one database.
type Catalog interface {
	UserStore
	TagStore
	FilmStore
	PersonStore
	GenreStore
	RoleStore

	// Build creates the schema and imports the seed files with foreign key
	// enforcement suspended, in a single transaction.
	Build(ctx context.Context, opts BuildOptions) (*BuildReport, error)
	Ping(ctx context.Context) error
	Close() error
}
