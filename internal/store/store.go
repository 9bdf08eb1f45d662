package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tunereel/models"
)

// Store is the shared artifact area on local disk. Every generated file
// lands here under a collision-free name and is served back to callers
// through the static mount. Files are append-only: nothing in the
// pipeline mutates or deletes an artifact once written, so concurrent
// runs can share a Store without locking.
type Store struct {
	dir        string
	publicBase string
}

// New creates the uploads directory if needed and returns a Store
// rooted there. publicBase is the URL prefix of the static mount,
// typically "/uploads".
func New(dir, publicBase string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: abs, publicBase: strings.TrimSuffix(publicBase, "/")}, nil
}

// Dir returns the absolute uploads directory.
func (s *Store) Dir() string { return s.dir }

// NewFilename produces a unique name for a fresh artifact of the given
// kind. Timestamp keeps names sortable; the uuid fragment keeps two
// runs writing in the same millisecond from colliding.
func (s *Store) NewFilename(kind models.ArtifactKind, ext string) string {
	return fmt.Sprintf("%s-%d-%s.%s", kind, time.Now().UnixMilli(), uuid.NewString()[:8], strings.TrimPrefix(ext, "."))
}

// Save streams r into a new artifact file of the given kind.
func (s *Store) Save(kind models.ArtifactKind, ext string, r io.Reader) (models.Artifact, error) {
	name := s.NewFilename(kind, ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return models.Artifact{}, fmt.Errorf("create artifact %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return models.Artifact{}, fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return models.Artifact{}, fmt.Errorf("close artifact %s: %w", name, err)
	}

	return s.artifact(kind, name), nil
}

// SaveBytes writes data as a new artifact file of the given kind.
func (s *Store) SaveBytes(kind models.ArtifactKind, ext string, data []byte) (models.Artifact, error) {
	return s.Save(kind, ext, bytes.NewReader(data))
}

// Adopt registers a file already written into the uploads directory
// (the clip extractor writes through ffmpeg, not through Save).
func (s *Store) Adopt(kind models.ArtifactKind, filename string) (models.Artifact, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return models.Artifact{}, fmt.Errorf("adopt %s: %w", filename, models.ErrNotFound)
		}
		return models.Artifact{}, err
	}
	return s.artifact(kind, filepath.Base(filename)), nil
}

// Resolve maps a caller-supplied reference (absolute path, bare
// filename, or public URL) to an absolute path on disk, verifying the
// file exists. A missing file reports models.ErrNotFound.
func (s *Store) Resolve(ref string) (string, error) {
	var path string
	switch {
	case strings.HasPrefix(ref, s.publicBase+"/"):
		path = filepath.Join(s.dir, filepath.Base(ref))
	case filepath.IsAbs(ref):
		path = ref
	default:
		path = filepath.Join(s.dir, filepath.Base(ref))
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("resolve %s: %w", ref, models.ErrNotFound)
		}
		return "", err
	}
	return path, nil
}

// PublicURL returns the relative URL a caller can fetch the artifact
// from. Consumers resolve it against the serving origin.
func (s *Store) PublicURL(filename string) string {
	return s.publicBase + "/" + filepath.Base(filename)
}

func (s *Store) artifact(kind models.ArtifactKind, name string) models.Artifact {
	return models.Artifact{
		ID:        name,
		Kind:      kind,
		Path:      filepath.Join(s.dir, name),
		URL:       s.publicBase + "/" + name,
		CreatedAt: time.Now().UTC(),
	}
}
