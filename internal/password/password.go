// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = bcrypt.DefaultCost

// ErrEmpty is returned when hashing an empty password.
var ErrEmpty = errors.New("password is empty")

// Hash returns the bcrypt hash of plain. A cost outside bcrypt's range falls
// back to DefaultCost.
func Hash(plain string, cost int) ([]byte, error) {
	if plain == "" {
		return nil, ErrEmpty
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Check reports whether plain matches hash. A missing hash never matches.
func Check(hash []byte, plain string) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
