package models

import "time"

// ArtifactKind identifies what a stored file is, and doubles as the
// filename prefix the store uses when naming new files.
type ArtifactKind string

const (
	ArtifactImage  ArtifactKind = "image"
	ArtifactLyrics ArtifactKind = "lyrics"
	ArtifactSong   ArtifactKind = "song"
	ArtifactChorus ArtifactKind = "chorus"
	ArtifactVideo  ArtifactKind = "video"
)

// Artifact is a generated or uploaded media file tracked by the store.
// Artifacts are immutable once written; they stay on disk until an
// operator cleans the uploads directory.
type Artifact struct {
	ID        string       `json:"id"` // generated filename, unique within the store
	Kind      ArtifactKind `json:"kind"`
	Path      string       `json:"path"` // absolute path on local disk
	URL       string       `json:"url"`  // relative URL under the static mount
	CreatedAt time.Time    `json:"created_at"`
}
