// Package models contains domain models for cinedb.
package models

// User is a catalog account. PasswordHash is a bcrypt hash and may be nil for
// accounts that cannot log in.
type User struct {
	ID           int64  `db:"id" json:"id" orm:"key,auto"`
	Username     string `db:"username" json:"username" orm:"unique"`
	Admin        bool   `db:"admin" json:"admin" orm:"default=0"`
	PasswordHash []byte `db:"password_hash" json:"-"`
}

// TableName returns the table backing users.
func (User) TableName() string { return "user" }

// NoUser is returned by lookups that find no matching account.
var NoUser = User{}

// Exists reports whether u refers to an actual account.
func (u User) Exists() bool {
	return u.Username != ""
}

func (u User) String() string {
	if !u.Exists() {
		return "<no user>"
	}
	return u.Username
}
