package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirStoreSaveAndOpen(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	snap, err := store.Save(ctx, "home", []byte("<p>hi</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Name != "home" || snap.Size != 9 {
		t.Errorf("snapshot = %+v", snap)
	}

	rc, err := store.Open(ctx, "home")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<p>hi</p>" {
		t.Errorf("body = %q", body)
	}

	if got := store.Latest("home"); got == nil || got.Location != snap.Location {
		t.Errorf("Latest = %+v, want %+v", got, snap)
	}
}

func TestDirStoreSaveReplaces(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := store.Save(ctx, "home", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, "home", []byte("new")); err != nil {
		t.Fatal(err)
	}

	rc, err := store.Open(ctx, "home")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "new" {
		t.Errorf("body = %q, want new", body)
	}
}

func TestDirStoreOpenMissing(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDirStoreSanitizesNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDirStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := store.Save(context.Background(), "../escape", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(dir, snap.Location)
	if err != nil || filepath.IsAbs(rel) || rel != filepath.Base(rel) {
		t.Errorf("snapshot escaped the store dir: %s", snap.Location)
	}
}

func TestDirStoreCleanup(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDirStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	old, err := store.Save(ctx, "old", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(old.Location, stale, stale); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(ctx, "fresh", []byte("y")); err != nil {
		t.Fatal(err)
	}

	if err := store.Cleanup(time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old snapshot survived cleanup: %v", err)
	}
	if _, err := store.Open(ctx, "fresh"); err != nil {
		t.Errorf("fresh snapshot removed: %v", err)
	}
}
