// Package gorm provides GORM-based database operations for cinedb.
package gorm

import (
	"github.com/thebtf/cinedb/pkg/models"
)

// GORM Models
//
// Table and column names match the tables internal/db/sqlite creates, so
// either backend can open a database built by the other. Belongs-to
// associations exist only to have GORM emit the foreign key constraints; they
// are never loaded or saved.

// User is a catalog account.
type User struct {
	Username     string `gorm:"column:username;unique;not null"`
	PasswordHash []byte `gorm:"column:password_hash"`
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Admin        bool   `gorm:"column:admin;not null;default:false"`
}

func (User) TableName() string { return "user" }

// Tag is a content rating label.
type Tag struct {
	Code string `gorm:"column:code;primaryKey"`
}

func (Tag) TableName() string { return "tag" }

// Film is a catalog entry.
type Film struct {
	Metascore   *int    `gorm:"column:metascore"`
	Revenue     *int64  `gorm:"column:revenue"`
	Tag         *string `gorm:"column:tag"`
	Description *string `gorm:"column:description"`
	TagRef      *Tag    `gorm:"foreignKey:Tag;references:Code"`
	Title       string  `gorm:"column:title;not null"`
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Rating      float64 `gorm:"column:rating;not null"`
	Length      int     `gorm:"column:length;not null"`
	Year        int     `gorm:"column:year;not null"`
	Votes       int     `gorm:"column:votes;not null;default:0"`
}

func (Film) TableName() string { return "film" }

// Person is anybody credited on a film.
type Person struct {
	Name string `gorm:"column:name;not null"`
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
}

func (Person) TableName() string { return "person" }

// Genre is a named film category.
type Genre struct {
	Name string `gorm:"column:name;unique;not null"`
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
}

func (Genre) TableName() string { return "genre" }

// Role credits a person on a film. The key is (film, person, type); a film
// has one credit per (type, position) slot.
type Role struct {
	Film     *Film           `gorm:"foreignKey:FilmID"`
	Person   *Person         `gorm:"foreignKey:PersonID"`
	Type     models.RoleType `gorm:"column:type;primaryKey;uniqueIndex:idx_role_slot,priority:2;check:type IN ('actor', 'director')"`
	FilmID   int64           `gorm:"column:film;primaryKey;autoIncrement:false;uniqueIndex:idx_role_slot,priority:1"`
	PersonID int64           `gorm:"column:person;primaryKey;autoIncrement:false"`
	Position int             `gorm:"column:position;not null;uniqueIndex:idx_role_slot,priority:3"`
}

func (Role) TableName() string { return "role" }

// BelongsToGenre places a film in a genre.
type BelongsToGenre struct {
	Film    *Film  `gorm:"foreignKey:FilmID"`
	Genre   *Genre `gorm:"foreignKey:GenreID"`
	FilmID  int64  `gorm:"column:film;primaryKey;autoIncrement:false"`
	GenreID int64  `gorm:"column:genre;primaryKey;autoIncrement:false"`
}

func (BelongsToGenre) TableName() string { return "belongs_to_genre" }

// catalogModels lists every table in creation order.
func catalogModels() []any {
	return []any{&User{}, &Tag{}, &Film{}, &Person{}, &Genre{}, &Role{}, &BelongsToGenre{}}
}

// catalogTables lists the table names of catalogModels, in the same order.
var catalogTables = []string{"user", "tag", "film", "person", "genre", "role", "belongs_to_genre"}

func toModelUser(u *User) models.User {
	return models.User{ID: u.ID, Username: u.Username, Admin: u.Admin, PasswordHash: u.PasswordHash}
}

func fromModelFilm(f *models.Film) *Film {
	return &Film{
		ID:          f.ID,
		Title:       f.Title,
		Length:      f.Length,
		Year:        f.Year,
		Rating:      f.Rating,
		Metascore:   f.Metascore,
		Votes:       f.Votes,
		Revenue:     f.Revenue,
		Tag:         f.Tag,
		Description: f.Description,
	}
}

func toModelFilm(f *Film) *models.Film {
	return &models.Film{
		ID:          f.ID,
		Title:       f.Title,
		Length:      f.Length,
		Year:        f.Year,
		Rating:      f.Rating,
		Metascore:   f.Metascore,
		Votes:       f.Votes,
		Revenue:     f.Revenue,
		Tag:         f.Tag,
		Description: f.Description,
	}
}

func toModelFilms(films []Film) []*models.Film {
	result := make([]*models.Film, len(films))
	for i := range films {
		result[i] = toModelFilm(&films[i])
	}
	return result
}

func toModelPeople(people []Person) []*models.Person {
	result := make([]*models.Person, len(people))
	for i, p := range people {
		result[i] = &models.Person{ID: p.ID, Name: p.Name}
	}
	return result
}

func toModelGenres(genres []Genre) []*models.Genre {
	result := make([]*models.Genre, len(genres))
	for i, g := range genres {
		result[i] = &models.Genre{ID: g.ID, Name: g.Name}
	}
	return result
}

func fromModelRole(r *models.Role) *Role {
	return &Role{FilmID: r.FilmID, PersonID: r.PersonID, Type: r.Type, Position: r.Position}
}
