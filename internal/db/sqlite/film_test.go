package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebtf/cinedb/pkg/models"
)

func TestFilmStore_RoundTrip(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	meta := 77
	revenue := int64(1234567)
	film := &models.Film{
		Title:     "Podatkovne baze 2",
		Length:    100,
		Year:      2026,
		Rating:    10,
		Metascore: &meta,
		Revenue:   &revenue,
		Tag:       models.StringPtr("PG"),
	}
	require.NoError(t, c.CreateFilm(ctx, film))
	assert.Equal(t, int64(7), film.ID)

	got, err := c.GetFilmByID(ctx, film.ID)
	require.NoError(t, err)
	assert.Equal(t, film, got)

	film.Description = models.StringPtr("Zelo zanimiv film!")
	film.Votes = 3
	require.NoError(t, c.UpdateFilm(ctx, film))

	got, err = c.GetFilmByID(ctx, film.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Zelo zanimiv film!", *got.Description)
	assert.Equal(t, 3, got.Votes)

	require.NoError(t, c.DeleteFilm(ctx, film))
	assert.Zero(t, film.ID)
	_, err = c.GetFilmByID(ctx, 7)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFilmStore_Errors(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	_, err := c.GetFilmByID(ctx, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = c.CreateFilm(ctx, &models.Film{ID: 1, Title: "Again"})
	assert.ErrorIs(t, err, models.ErrAlreadyStored)

	err = c.UpdateFilm(ctx, &models.Film{Title: "Unsaved"})
	assert.ErrorIs(t, err, models.ErrNotStored)

	err = c.UpdateFilm(ctx, &models.Film{ID: 404, Title: "Ghost"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = c.CreateFilm(ctx, &models.Film{Title: "Unknown tag", Tag: models.StringPtr("NC-17")})
	assert.ErrorIs(t, err, models.ErrValidation)

	// Roles still reference the film.
	film, err := c.GetFilmByID(ctx, 1)
	require.NoError(t, err)
	err = c.DeleteFilm(ctx, film)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, int64(1), film.ID)
}

func TestFilmStore_BestInYear(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	films, err := c.BestInYear(ctx, 2008, 0)
	require.NoError(t, err)
	titles := make([]string, len(films))
	for i, f := range films {
		titles[i] = f.Title
	}
	assert.Equal(t, []string{"The Dark Knight", "WALL-E", "Burn After Reading"}, titles)

	best, err := c.BestInYear(ctx, 2008, 1)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, int64(1), best[0].ID)

	none, err := c.BestInYear(ctx, 1900, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFilmStore_Cast(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	cast, err := c.Cast(ctx, 4)
	require.NoError(t, err)
	require.Len(t, cast, 3)

	assert.Equal(t, "David Fincher", cast[0].Person.Name)
	assert.Equal(t, models.RoleDirector, cast[0].Type)
	assert.Equal(t, "Brad Pitt", cast[1].Person.Name)
	assert.Equal(t, models.RoleActor, cast[1].Type)
	assert.Equal(t, 1, cast[1].Position)
	assert.Equal(t, "Morgan Freeman", cast[2].Person.Name)
	assert.Equal(t, 2, cast[2].Position)

	assert.Equal(t, "Se7en", cast[0].Film.Title)
	assert.Equal(t, "Brad Pitt: actor 1 in film Se7en", cast[1].String())

	_, err = c.Cast(ctx, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFilmStore_EmptyResults(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	film := &models.Film{Title: "Uncredited", Year: 2026}
	require.NoError(t, c.CreateFilm(ctx, film))
	person := &models.Person{Name: "Nobody"}
	require.NoError(t, c.CreatePerson(ctx, person))

	cast, err := c.Cast(ctx, film.ID)
	require.NoError(t, err)
	assert.NotNil(t, cast)
	assert.Empty(t, cast)

	best, err := c.BestInYear(ctx, 1900, 5)
	require.NoError(t, err)
	assert.NotNil(t, best)

	roles, err := c.Filmography(ctx, person.ID)
	require.NoError(t, err)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)

	genres, err := c.GenresOfFilm(ctx, film.ID)
	require.NoError(t, err)
	assert.NotNil(t, genres)
	assert.Empty(t, genres)
}
