package seed

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one CSV record keyed by column name.
type Row map[string]string

func (r Row) get(col string) (string, error) {
	v, ok := r[col]
	if !ok {
		return "", fmt.Errorf("column %s: missing", col)
	}
	return strings.TrimSpace(v), nil
}

// String returns the raw value of col.
func (r Row) String(col string) (string, error) {
	v, ok := r[col]
	if !ok {
		return "", fmt.Errorf("column %s: missing", col)
	}
	return v, nil
}

// Int64 parses col as a base-10 integer.
func (r Row) Int64(col string) (int64, error) {
	v, err := r.get(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return n, nil
}

// Int parses col as an int.
func (r Row) Int(col string) (int, error) {
	n, err := r.Int64(col)
	return int(n), err
}

// Float64 parses col as a floating point number.
func (r Row) Float64(col string) (float64, error) {
	v, err := r.get(col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return f, nil
}

// Bool parses col as 0/1 or true/false. An empty value is false.
func (r Row) Bool(col string) (bool, error) {
	v, err := r.get(col)
	if err != nil {
		return false, err
	}
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("column %s: %w", col, err)
	}
	return b, nil
}

// OptionalString returns nil for an empty value.
func (r Row) OptionalString(col string) (*string, error) {
	v, err := r.String(col)
	if err != nil || v == "" {
		return nil, err
	}
	return &v, nil
}

// OptionalInt64 returns nil for an empty value.
func (r Row) OptionalInt64(col string) (*int64, error) {
	v, err := r.get(col)
	if err != nil || v == "" {
		return nil, err
	}
	n, err := r.Int64(col)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// OptionalInt returns nil for an empty value.
func (r Row) OptionalInt(col string) (*int, error) {
	n, err := r.OptionalInt64(col)
	if err != nil || n == nil {
		return nil, err
	}
	v := int(*n)
	return &v, nil
}

// Scanner accumulates the first conversion error across several reads so a
// record can be decoded without checking every column.
type Scanner struct {
	Row Row
	err error
}

// Scan wraps row.
func Scan(row Row) *Scanner {
	return &Scanner{Row: row}
}

// Err returns the first conversion error.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) keep(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

func (s *Scanner) String(col string) string {
	v, err := s.Row.String(col)
	s.keep(err)
	return v
}

func (s *Scanner) Int64(col string) int64 {
	v, err := s.Row.Int64(col)
	s.keep(err)
	return v
}

func (s *Scanner) Int(col string) int {
	v, err := s.Row.Int(col)
	s.keep(err)
	return v
}

func (s *Scanner) Float64(col string) float64 {
	v, err := s.Row.Float64(col)
	s.keep(err)
	return v
}

func (s *Scanner) Bool(col string) bool {
	v, err := s.Row.Bool(col)
	s.keep(err)
	return v
}

func (s *Scanner) OptionalString(col string) *string {
	v, err := s.Row.OptionalString(col)
	s.keep(err)
	return v
}

func (s *Scanner) OptionalInt64(col string) *int64 {
	v, err := s.Row.OptionalInt64(col)
	s.keep(err)
	return v
}

func (s *Scanner) OptionalInt(col string) *int {
	v, err := s.Row.OptionalInt(col)
	s.keep(err)
	return v
}
