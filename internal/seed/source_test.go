package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFrom(t *testing.T) {
	src, err := ReadFrom(strings.NewReader("\ufeffid, name\n1,Brad Pitt\n2,\"Coen, Joel\"\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, src.Header)
	require.Equal(t, 2, src.Len())
	assert.Equal(t, "Brad Pitt", src.Rows[0]["name"])
	assert.Equal(t, "Coen, Joel", src.Rows[1]["name"])
}

func TestReadFrom_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged record", "a,b\n1,2,3\n"},
		{"unterminated quote", "a\n\"oops\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestRead_Testdata(t *testing.T) {
	want := map[string]int{
		UserFile:   3,
		FilmFile:   6,
		PersonFile: 10,
		RoleFile:   14,
		GenreFile:  8,
	}

	for name, rows := range want {
		t.Run(name, func(t *testing.T) {
			src, err := Read(filepath.Join("testdata", name))
			require.NoError(t, err)
			assert.Equal(t, name, src.Name)
			assert.Equal(t, rows, src.Len())
		})
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAll(t *testing.T) {
	sources, err := LoadAll(context.Background(), "testdata", append(Files, "missing.csv")...)
	require.NoError(t, err)

	assert.Len(t, sources, len(Files))
	assert.NotContains(t, sources, "missing.csv")
	assert.Equal(t, 6, sources[FilmFile].Len())

	var absent *Source
	assert.Zero(t, absent.Len())
}

func TestLoadAll_PropagatesParseErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FilmFile), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PersonFile), []byte("id,name\n1,A\n"), 0o644))

	_, err := LoadAll(context.Background(), dir, FilmFile, PersonFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header")
}

func TestLoadAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadAll(ctx, "testdata", Files...)
	assert.ErrorIs(t, err, context.Canceled)
}
