package store_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/postforge/media-mirror/store"
)

func TestFileStoreRoundTrip(t *testing.T) {
	f, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	rootID, err := f.EnsureFolder(ctx, "", "Social Media Automation")
	if err != nil {
		t.Fatal(err)
	}
	postID, err := f.EnsureFolder(ctx, rootID, "static_2024-01-01_00-00-00")
	if err != nil {
		t.Fatal(err)
	}
	itemID, err := f.UploadFile(ctx, postID, "a.png", []byte("img"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.DownloadFile(ctx, itemID)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("img")) {
		t.Fatal("wrong bytes")
	}

	if err := f.DeleteFolder(ctx, postID); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(postID); !os.IsNotExist(err) {
		t.Fatal("post folder should be gone")
	}
	if _, err := os.Stat(rootID); err != nil {
		t.Fatal("root folder should survive")
	}
}

func TestFileStoreEnsureFolderIdempotent(t *testing.T) {
	f, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	a, _ := f.EnsureFolder(ctx, "", "root")
	b, _ := f.EnsureFolder(ctx, "", "root")
	if a != b {
		t.Fatalf("ensure should be idempotent: %s vs %s", a, b)
	}
}

func TestFileStoreCreateFolderFreshID(t *testing.T) {
	f, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	a, err := f.CreateFolder(ctx, "", "static_2024-01-01_00-00-00")
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.CreateFolder(ctx, "", "static_2024-01-01_00-00-00")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("same-name create must yield distinct folders, both got %s", a)
	}
	if _, err := os.Stat(a); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(b); err != nil {
		t.Fatal(err)
	}
}

func TestMemFolderStoreCreateFolderFreshID(t *testing.T) {
	m := store.NewMemFolderStore()
	ctx := context.Background()
	a, _ := m.CreateFolder(ctx, "", "post")
	b, _ := m.CreateFolder(ctx, "", "post")
	if a == b {
		t.Fatalf("same-name create must yield distinct ids, both got %s", a)
	}
	// find-or-create keeps returning the existing folder
	c, _ := m.EnsureFolder(ctx, "", "root")
	d, _ := m.EnsureFolder(ctx, "", "root")
	if c != d {
		t.Fatalf("ensure should be idempotent: %s vs %s", c, d)
	}
}

func TestMemFolderStoreDeleteRemovesFiles(t *testing.T) {
	m := store.NewMemFolderStore()
	ctx := context.Background()
	folderID, _ := m.EnsureFolder(ctx, "", "post")
	itemID, _ := m.UploadFile(ctx, folderID, "a.png", []byte("x"), "image/png")

	if err := m.DeleteFolder(ctx, folderID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.DownloadFile(ctx, itemID); err == nil {
		t.Fatal("files under a deleted folder must be gone")
	}
}
