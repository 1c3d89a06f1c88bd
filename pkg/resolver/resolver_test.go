package resolver_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/postforge/media-mirror/commons"
	"github.com/postforge/media-mirror/pkg/resolver"
	"github.com/postforge/media-mirror/store"
)

func TestResolvePrefersObjectStore(t *testing.T) {
	obj := store.NewMemObjectStore()
	folder := store.NewMemFolderStore()
	url, err := obj.Put(context.Background(), "posts/a.png", []byte("obj-bytes"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	res := resolver.NewResolver(obj, folder)

	data, err := res.Resolve(context.Background(), commons.ReplicatedItem{
		ObjectStoreURL: url,
		FolderItemID:   "file-1",
	})
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if !bytes.Equal(data, []byte("obj-bytes")) {
		t.Fatal("wrong bytes")
	}
	if folder.DownloadCalls != 0 {
		t.Fatal("must not touch folder store when object store works")
	}
}

func TestResolveFallsBackToFolder(t *testing.T) {
	obj := store.NewMemObjectStore()
	folder := store.NewMemFolderStore()
	folderID, _ := folder.EnsureFolder(context.Background(), "", "post")
	itemID, err := folder.UploadFile(context.Background(), folderID, "a.png", []byte("folder-bytes"), "image/png")
	if err != nil {
		t.Fatal(err)
	}
	res := resolver.NewResolver(obj, folder)

	// no object-store url at all
	data, err := res.Resolve(context.Background(), commons.ReplicatedItem{FolderItemID: itemID})
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if !bytes.Equal(data, []byte("folder-bytes")) {
		t.Fatal("wrong bytes")
	}
	if obj.GetCalls != 0 {
		t.Fatal("object store should not be consulted without a url")
	}
}

func TestResolveFallsThroughFailures(t *testing.T) {
	obj := store.NewMemObjectStore()
	obj.FailGet = true
	folder := store.NewMemFolderStore()
	folderID, _ := folder.EnsureFolder(context.Background(), "", "post")
	itemID, _ := folder.UploadFile(context.Background(), folderID, "a.png", []byte("folder-bytes"), "image/png")
	res := resolver.NewResolver(obj, folder)

	data, err := res.Resolve(context.Background(), commons.ReplicatedItem{
		ObjectStoreURL: "https://obj.test/posts/a.png",
		FolderItemID:   itemID,
	})
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if !bytes.Equal(data, []byte("folder-bytes")) {
		t.Fatal("wrong bytes")
	}
	if obj.GetCalls != 1 {
		t.Fatalf("object store tried %d times, want exactly 1", obj.GetCalls)
	}
}

func TestResolveHTTPLastResort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("http-bytes"))
	}))
	defer srv.Close()

	obj := store.NewMemObjectStore()
	obj.FailGet = true
	folder := store.NewMemFolderStore()
	folder.FailRead = true
	res := resolver.NewResolver(obj, folder)

	data, err := res.Resolve(context.Background(), commons.ReplicatedItem{
		ObjectStoreURL: "https://obj.test/posts/a.png",
		FolderItemID:   "file-1",
		SrcLink:        srv.URL + "/a.png",
	})
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	if !bytes.Equal(data, []byte("http-bytes")) {
		t.Fatal("wrong bytes")
	}
}

func TestResolveExhausted(t *testing.T) {
	obj := store.NewMemObjectStore()
	obj.FailGet = true
	folder := store.NewMemFolderStore()
	folder.FailRead = true
	res := resolver.NewResolver(obj, folder)

	_, err := res.Resolve(context.Background(), commons.ReplicatedItem{
		ObjectStoreURL: "https://obj.test/posts/a.png",
		FolderItemID:   "file-1",
		FileName:       "a.png",
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if _, ok := err.(*resolver.ExhaustedError); !ok {
		t.Fatalf("expected ExhaustedError, got %T", err)
	}
}

func TestResolveNoLocations(t *testing.T) {
	res := resolver.NewResolver(store.NewMemObjectStore(), store.NewMemFolderStore())
	_, err := res.Resolve(context.Background(), commons.ReplicatedItem{FileName: "a.png"})
	if _, ok := err.(*resolver.ExhaustedError); !ok {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
}
