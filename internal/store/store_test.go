package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunereel/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return s
}

func TestSaveWritesAndNames(t *testing.T) {
	s := newTestStore(t)

	art, err := s.Save(models.ArtifactSong, "mp3", strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(art.ID, "song-"))
	assert.True(t, strings.HasSuffix(art.ID, ".mp3"))
	assert.Equal(t, "/uploads/"+art.ID, art.URL)

	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestSaveNamesNeverCollide(t *testing.T) {
	s := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		art, err := s.SaveBytes(models.ArtifactChorus, "mp3", []byte("x"))
		require.NoError(t, err)
		assert.False(t, seen[art.ID], "duplicate artifact name %s", art.ID)
		seen[art.ID] = true
	}
}

func TestResolveVariants(t *testing.T) {
	s := newTestStore(t)
	art, err := s.SaveBytes(models.ArtifactImage, "png", []byte("img"))
	require.NoError(t, err)

	for _, ref := range []string{art.ID, art.Path, art.URL} {
		got, err := s.Resolve(ref)
		require.NoError(t, err, "ref %q", ref)
		assert.Equal(t, art.Path, got)
	}
}

func TestResolveMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Resolve("song-123-deadbeef.mp3")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdoptRegistersExternallyWrittenFile(t *testing.T) {
	s := newTestStore(t)

	name := s.NewFilename(models.ArtifactChorus, "mp3")
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), name), []byte("clip"), 0o644))

	art, err := s.Adopt(models.ArtifactChorus, name)
	require.NoError(t, err)
	assert.Equal(t, name, art.ID)
	assert.Equal(t, models.ArtifactChorus, art.Kind)
}

func TestAdoptMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Adopt(models.ArtifactChorus, "chorus-1-abc.mp3")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
