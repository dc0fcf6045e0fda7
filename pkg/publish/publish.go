package publish

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when a snapshot doesn't exist.
var ErrNotFound = errors.New("publish: snapshot not found")

// Snapshot describes one stored document.
type Snapshot struct {
	// Name is the logical snapshot name, without extension.
	Name string

	// Location is where the snapshot landed: a filesystem path for
	// DirStore, an object key for remote stores.
	Location string

	// Size is the document size in bytes.
	Size int64

	// SavedAt is when the snapshot was written.
	SavedAt time.Time
}

// Store is the interface for snapshot storage backends.
// Implement this interface to publish to S3, GCS, or other storage.
type Store interface {
	// Save stores doc under name, replacing any previous snapshot with
	// the same name.
	Save(ctx context.Context, name string, doc []byte) (*Snapshot, error)

	// Open returns the current snapshot body for name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Cleanup removes snapshots older than maxAge.
	// Call this periodically if snapshots accumulate.
	Cleanup(maxAge time.Duration) error
}
