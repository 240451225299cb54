package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thebtf/cinedb/pkg/models"
)

func TestPersonStore_CRUD(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	p := &models.Person{Name: "Andrei Tarkovsky"}
	require.NoError(t, c.CreatePerson(ctx, p))
	require.NotZero(t, p.ID)

	p.Name = "Andrei Arsenyevich Tarkovsky"
	require.NoError(t, c.UpdatePerson(ctx, p))

	got, err := c.GetPersonByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	id := p.ID
	require.NoError(t, c.DeletePerson(ctx, p))
	assert.Zero(t, p.ID)

	_, err = c.GetPersonByID(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = c.DeletePerson(ctx, &models.Person{ID: id})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPersonStore_SearchPeople(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	pitt, err := c.SearchPeople(ctx, "Brad Pitt")
	require.NoError(t, err)
	require.Len(t, pitt, 1)
	assert.Equal(t, int64(5), pitt[0].ID)

	chris, err := c.SearchPeople(ctx, "Chris")
	require.NoError(t, err)
	require.Len(t, chris, 2)
	assert.Equal(t, "Christian Bale", chris[0].Name)
	assert.Equal(t, "Christopher Nolan", chris[1].Name)

	// LIKE is case-insensitive for ASCII.
	lower, err := c.SearchPeople(ctx, "fincher")
	require.NoError(t, err)
	assert.Len(t, lower, 1)

	none, err := c.SearchPeople(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPersonStore_Filmography(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	credits, err := c.Filmography(ctx, 5)
	require.NoError(t, err)
	require.Len(t, credits, 3)

	var years []int
	var titles []string
	for _, cr := range credits {
		years = append(years, cr.Film.Year)
		titles = append(titles, cr.Film.Title)
		assert.Equal(t, "Brad Pitt", cr.Person.Name)
		assert.Equal(t, models.RoleActor, cr.Type)
	}
	assert.Equal(t, []int{1995, 1999, 2008}, years)
	assert.Equal(t, []string{"Se7en", "Fight Club", "Burn After Reading"}, titles)

	nolan, err := c.Filmography(ctx, 1)
	require.NoError(t, err)
	require.Len(t, nolan, 2)
	assert.Equal(t, models.RoleDirector, nolan[0].Type)

	_, err = c.Filmography(ctx, 404)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPersonStore_DeleteWithRoles(t *testing.T) {
	c := seededCatalog(t)
	ctx := context.Background()

	err := c.DeletePerson(ctx, &models.Person{ID: 5, Name: "Brad Pitt"})
	assert.ErrorIs(t, err, models.ErrValidation)
}
