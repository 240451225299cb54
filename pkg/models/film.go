// Package models contains domain models for cinedb.
package models

// Tag is a content rating label (e.g. "PG-13") identified by its code.
type Tag struct {
	Code string `db:"code" json:"code" orm:"key"`
}

// TableName returns the table backing tags.
func (Tag) TableName() string { return "tag" }

func (t Tag) String() string { return t.Code }

// Film is a catalog entry. Optional columns are pointers.
type Film struct {
	ID          int64   `db:"id" json:"id" orm:"key,auto"`
	Title       string  `db:"title" json:"title"`
	Length      int     `db:"length" json:"length"`
	Year        int     `db:"year" json:"year"`
	Rating      float64 `db:"rating" json:"rating"`
	Metascore   *int    `db:"metascore" json:"metascore,omitempty"`
	Votes       int     `db:"votes" json:"votes" orm:"default=0"`
	Revenue     *int64  `db:"revenue" json:"revenue,omitempty"`
	Tag         *string `db:"tag" json:"tag,omitempty" orm:"ref=tag"`
	Description *string `db:"description" json:"description,omitempty"`
}

// TableName returns the table backing films.
func (Film) TableName() string { return "film" }

func (f Film) String() string {
	if f.Title == "" {
		return "<film>"
	}
	return f.Title
}

// Person is anybody credited on a film.
type Person struct {
	ID   int64  `db:"id" json:"id" orm:"key,auto"`
	Name string `db:"name" json:"name"`
}

// TableName returns the table backing people.
func (Person) TableName() string { return "person" }

func (p Person) String() string {
	if p.Name == "" {
		return "<person>"
	}
	return p.Name
}

// Genre is a named film category.
type Genre struct {
	ID   int64  `db:"id" json:"id" orm:"key,auto"`
	Name string `db:"name" json:"name" orm:"unique"`
}

// TableName returns the table backing genres.
func (Genre) TableName() string { return "genre" }

func (g Genre) String() string { return g.Name }

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
