// Package models contains domain models for cinedb.
package models

import (
	"fmt"
	"strings"
)

// RoleType is the kind of credit a person holds on a film.
type RoleType string

const (
	// RoleActor is an acting credit.
	RoleActor RoleType = "actor"
	// RoleDirector is a directing credit.
	RoleDirector RoleType = "director"
)

// AllRoleTypes is the list of all valid role types.
var AllRoleTypes = []RoleType{RoleActor, RoleDirector}

// ParseRoleType accepts a role type name or the single-letter seed code
// ("I" for actor, "R" for director), case-insensitively.
func ParseRoleType(s string) (RoleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "actor", "i":
		return RoleActor, nil
	case "director", "r":
		return RoleDirector, nil
	}
	return "", fmt.Errorf("unknown role type %q", s)
}

// Valid reports whether t is one of AllRoleTypes.
func (t RoleType) Valid() bool {
	for _, v := range AllRoleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Role credits a person on a film. A film has at most one credit per
// (type, position) slot.
type Role struct {
	FilmID   int64    `db:"film" json:"film" orm:"ref=film"`
	PersonID int64    `db:"person" json:"person" orm:"ref=person"`
	Type     RoleType `db:"type" json:"type" orm:"key,enum=actor|director"`
	Position int      `db:"position" json:"position"`
}

// TableName returns the table backing roles.
func (Role) TableName() string { return "role" }

// BelongsToGenre places a film in a genre.
type BelongsToGenre struct {
	FilmID  int64 `db:"film" json:"film" orm:"ref=film"`
	GenreID int64 `db:"genre" json:"genre" orm:"ref=genre"`
}

// TableName returns the table backing genre membership.
func (BelongsToGenre) TableName() string { return "belongs_to_genre" }

// Credit is a role joined with the film and person it links, as returned by
// cast lists and filmographies. Only the film columns the query selects are set.
type Credit struct {
	Film     Film     `json:"film"`
	Person   Person   `json:"person"`
	Type     RoleType `json:"type"`
	Position int      `json:"position"`
}

// Role returns the bare relationship row behind the credit.
func (c Credit) Role() Role {
	return Role{FilmID: c.Film.ID, PersonID: c.Person.ID, Type: c.Type, Position: c.Position}
}

func (c Credit) String() string {
	return fmt.Sprintf("%s: %s %d in film %s", c.Person, c.Type, c.Position, c.Film)
}
