package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Accessors(t *testing.T) {
	row := Row{
		"id":        "42",
		"rating":    " 8.5 ",
		"admin":     "1",
		"title":     "Heat",
		"metascore": "",
		"revenue":   "187436818",
		"bad":       "x",
	}

	id, err := row.Int64("id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	rating, err := row.Float64("rating")
	require.NoError(t, err)
	assert.InDelta(t, 8.5, rating, 1e-9)

	admin, err := row.Bool("admin")
	require.NoError(t, err)
	assert.True(t, admin)

	meta, err := row.OptionalInt("metascore")
	require.NoError(t, err)
	assert.Nil(t, meta)

	revenue, err := row.OptionalInt64("revenue")
	require.NoError(t, err)
	require.NotNil(t, revenue)
	assert.Equal(t, int64(187436818), *revenue)

	desc, err := row.OptionalString("metascore")
	require.NoError(t, err)
	assert.Nil(t, desc)

	title, err := row.OptionalString("title")
	require.NoError(t, err)
	assert.Equal(t, "Heat", *title)

	_, err = row.Int("bad")
	assert.ErrorContains(t, err, "column bad")

	_, err = row.String("nope")
	assert.ErrorContains(t, err, "column nope: missing")

	empty, err := Row{"admin": ""}.Bool("admin")
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestScanner_KeepsFirstError(t *testing.T) {
	s := Scan(Row{"id": "7", "year": "soon", "length": "long"})

	assert.Equal(t, int64(7), s.Int64("id"))
	assert.Zero(t, s.Int("year"))
	assert.Zero(t, s.Int("length"))
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "column year")
}

func TestScanner_NoError(t *testing.T) {
	s := Scan(Row{"name": "Drama", "tag": "", "votes": "10", "admin": "false", "rating": "1.5"})

	assert.Equal(t, "Drama", s.String("name"))
	assert.Nil(t, s.OptionalString("tag"))
	assert.Equal(t, int64(10), *s.OptionalInt64("votes"))
	assert.Equal(t, 10, *s.OptionalInt("votes"))
	assert.False(t, s.Bool("admin"))
	assert.Equal(t, 1.5, s.Float64("rating"))
	assert.NoError(t, s.Err())
}
