package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DirStore stores snapshots on the local filesystem, one ".html" file
// per name.
type DirStore struct {
	dir string

	mu    sync.RWMutex
	index map[string]*Snapshot
}

// NewDirStore creates a DirStore rooted at dir, creating it if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirStore{
		dir:   dir,
		index: make(map[string]*Snapshot),
	}, nil
}

// Save writes doc to <dir>/<name>.html atomically: a temp file first,
// then a rename over the previous snapshot.
func (s *DirStore) Save(ctx context.Context, name string, doc []byte) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, sanitize(name)+".html")

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return nil, err
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	snap := &Snapshot{
		Name:     name,
		Location: path,
		Size:     int64(len(doc)),
		SavedAt:  time.Now(),
	}
	s.mu.Lock()
	s.index[name] = snap
	s.mu.Unlock()
	return snap, nil
}

// Open returns the snapshot body for name.
func (s *DirStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, sanitize(name)+".html"))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

// Cleanup removes snapshot files older than maxAge.
func (s *DirStore) Cleanup(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			name := strings.TrimSuffix(e.Name(), ".html")
			os.Remove(filepath.Join(s.dir, e.Name()))
			s.mu.Lock()
			delete(s.index, name)
			s.mu.Unlock()
		}
	}
	return nil
}

// Latest returns the in-memory record of the last snapshot saved under
// name in this process, or nil.
func (s *DirStore) Latest(name string) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[name]
}

// sanitize keeps snapshot names from escaping the store directory.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	name = strings.ReplaceAll(name, "..", "-")
	if name == "" {
		name = "snapshot"
	}
	return name
}
