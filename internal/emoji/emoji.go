package emoji

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when an emoji id is unknown to the store.
var ErrNotFound = errors.New("emoji not found")

// ValidationError describes a structural problem with a create request.
// The upload collaborator validates input first; the store re-checks
// defensively and reports the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Emoji is one gallery record. IDs are zero-padded decimal strings
// assigned monotonically and never reused, even after deletion.
type Emoji struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Category   string    `json:"category,omitempty"`
	Tags       []string  `json:"tags"`
	Likes      int64     `json:"likes"`
	Downloads  int64     `json:"downloads"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// InsertEmoji carries the fields a caller provides when creating a record.
// The file itself is already stored by the upload collaborator; only the
// reference travels through the core.
type InsertEmoji struct {
	Name     string
	FileName string
	FilePath string
	FileSize int64
	MimeType string
	Width    int
	Height   int
	Category string
	Tags     []string
}

const maxNameLength = 50

// Validate re-checks the structural invariants of a create request.
func (in *InsertEmoji) Validate() error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if len(in.Name) > maxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}

	if in.FileSize <= 0 {
		return &ValidationError{Field: "fileSize", Reason: "must be positive"}
	}

	if in.Width <= 0 {
		return &ValidationError{Field: "width", Reason: "must be positive"}
	}

	if in.Height <= 0 {
		return &ValidationError{Field: "height", Reason: "must be positive"}
	}

	if in.MimeType == "" {
		return &ValidationError{Field: "mimeType", Reason: "must not be empty"}
	}

	return nil
}

// Sort names a catalog ordering.
type Sort string

const (
	SortNewest         Sort = "newest"
	SortOldest         Sort = "oldest"
	SortMostLiked      Sort = "most-liked"
	SortMostDownloaded Sort = "most-downloaded"
)

// Filter narrows and orders a catalog query. Search matches the name or
// any tag, case-insensitively. A zero Limit falls back to the store default.
type Filter struct {
	Search   string
	Category string
	Sort     Sort
	Limit    int
	Offset   int
}

// Repository defines the record store contract. All mutating operations
// are linearizable per id and durably flushed before they return.
type Repository interface {
	// NextID allocates a fresh identifier. Strictly increasing, never
	// reused, persisted alongside records so restarts cannot recycle ids.
	NextID(ctx context.Context) (string, error)

	Create(ctx context.Context, in InsertEmoji) (*Emoji, error)

	// Get returns ErrNotFound for unknown ids; absence is a normal outcome.
	Get(ctx context.Context, id string) (*Emoji, error)

	// Query returns at most Limit records after filter+sort, starting at
	// Offset. Records are copies; callers may retain them freely.
	Query(ctx context.Context, f Filter) ([]*Emoji, error)

	IncrementLikes(ctx context.Context, id string) (*Emoji, error)
	IncrementDownloads(ctx context.Context, id string) (*Emoji, error)

	// Remove reports whether a record was deleted. Backing file removal is
	// the file-storage collaborator's job.
	Remove(ctx context.Context, id string) (bool, error)

	// All returns a copy of every record, for statistics aggregation.
	All(ctx context.Context) ([]*Emoji, error)
}
