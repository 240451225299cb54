package seed

import (
	"github.com/thebtf/cinedb/pkg/models"
)

// UserRecord is a row of user.csv. Password is the plain text password and
// may be empty.
type UserRecord struct {
	User     models.User
	Password string
}

// ParseUser reads the username, admin and password columns.
func ParseUser(row Row) (UserRecord, error) {
	sc := Scan(row)
	rec := UserRecord{
		User: models.User{
			Username: sc.String("username"),
			Admin:    sc.Bool("admin"),
		},
		Password: sc.String("password"),
	}
	return rec, sc.Err()
}

// ParseFilm reads a row keyed by film column names. An empty votes column
// means no votes.
func ParseFilm(row Row) (*models.Film, error) {
	sc := Scan(row)
	f := &models.Film{
		ID:          sc.Int64("id"),
		Title:       sc.String("title"),
		Length:      sc.Int("length"),
		Year:        sc.Int("year"),
		Rating:      sc.Float64("rating"),
		Metascore:   sc.OptionalInt("metascore"),
		Revenue:     sc.OptionalInt64("revenue"),
		Tag:         sc.OptionalString("tag"),
		Description: sc.OptionalString("description"),
	}
	if votes := sc.OptionalInt("votes"); votes != nil {
		f.Votes = *votes
	}
	return f, sc.Err()
}

// ParsePerson reads the id and name columns.
func ParsePerson(row Row) (*models.Person, error) {
	sc := Scan(row)
	p := &models.Person{ID: sc.Int64("id"), Name: sc.String("name")}
	return p, sc.Err()
}

// ParseRole reads the film, person, type and position columns. The type
// column takes role names or the codes I and R.
func ParseRole(row Row) (*models.Role, error) {
	sc := Scan(row)
	r := &models.Role{
		FilmID:   sc.Int64("film"),
		PersonID: sc.Int64("person"),
		Position: sc.Int("position"),
	}
	code := sc.String("type")
	if err := sc.Err(); err != nil {
		return nil, err
	}
	t, err := models.ParseRoleType(code)
	if err != nil {
		return nil, err
	}
	r.Type = t
	return r, nil
}

// ParseMembership reads a genre.csv row: the film id and the genre name.
func ParseMembership(row Row) (filmID int64, genre string, err error) {
	sc := Scan(row)
	filmID = sc.Int64("film")
	genre = sc.String("name")
	return filmID, genre, sc.Err()
}
