package document

import "time"

// Content pairs a CSV file with its machine-translated original. CSV is nil
// when the original itself was requested; Original is nil when no original
// exists.
type Content struct {
	CSV      *string `json:"csv_content"`
	Original *string `json:"original_content"`
}

// SaveRequest carries a new edited version of SourcePath.
type SaveRequest struct {
	SourcePath string
	Content    string
}

// SavedVersion identifies a newly written edited version.
type SavedVersion struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// VersionKind classifies an entry in a version history.
type VersionKind string

const (
	KindOriginal VersionKind = "original"
	KindMain     VersionKind = "main"
	KindEdited   VersionKind = "edited"
)

// Version is one file in the history of a base name
type Version struct {
	Name      string      `json:"name"`
	Path      string      `json:"path"`
	Kind      VersionKind `json:"kind"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
	Modified  time.Time   `json:"modified"`
}
