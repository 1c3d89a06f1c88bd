package replicate_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/postforge/media-mirror/pkg/replicate"
	"github.com/postforge/media-mirror/sources"
	"github.com/postforge/media-mirror/store"
)

func newTestStores() (*store.MemObjectStore, *store.MemFolderStore) {
	return store.NewMemObjectStore(), store.NewMemFolderStore()
}

func newMediaServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func mustFolder(t *testing.T, folder *store.MemFolderStore) string {
	t.Helper()
	id, err := folder.EnsureFolder(context.Background(), "", "post")
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestReplicateOne(t *testing.T) {
	payload := []byte("img-bytes")
	srv := newMediaServer(t, payload)
	obj, folder := newTestStores()
	r, err := replicate.NewReplicator(obj, folder, nil)
	if err != nil {
		t.Fatal(err)
	}
	folderID := mustFolder(t, folder)

	item, err := r.ReplicateOne(context.Background(), folderID, &sources.RemoteURL{URL: srv.URL + "/a.png"})
	if err != nil {
		t.Fatalf("replicate failed: %s", err)
	}
	if item.ObjectStoreURL == "" {
		t.Fatal("object store url missing")
	}
	if item.MimeType != "image/png" {
		t.Fatalf("mime = %s", item.MimeType)
	}
	if item.SrcLink != srv.URL+"/a.png" {
		t.Fatalf("src link = %s", item.SrcLink)
	}
	got, err := folder.DownloadFile(context.Background(), item.FolderItemID)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("folder copy differs from source bytes")
	}
	if _, err := obj.Get(context.Background(), item.ObjectStoreURL); err != nil {
		t.Fatalf("object copy missing: %s", err)
	}
}

func TestReplicateOneObjectStoreDown(t *testing.T) {
	srv := newMediaServer(t, []byte("img-bytes"))
	obj, folder := newTestStores()
	obj.FailPut = true
	r, _ := replicate.NewReplicator(obj, folder, nil)
	folderID := mustFolder(t, folder)

	item, err := r.ReplicateOne(context.Background(), folderID, &sources.RemoteURL{URL: srv.URL + "/a.png"})
	if err != nil {
		t.Fatalf("object store failure must not fail the item: %s", err)
	}
	if item.ObjectStoreURL != "" {
		t.Fatal("object store url should be absent")
	}
	if item.FolderItemID == "" {
		t.Fatal("folder item should still exist")
	}
}

func TestReplicateOneReadBackFails(t *testing.T) {
	payload := []byte("img-bytes")
	srv := newMediaServer(t, payload)
	obj, folder := newTestStores()
	obj.FailGet = true
	r, _ := replicate.NewReplicator(obj, folder, nil)
	folderID := mustFolder(t, folder)

	item, err := r.ReplicateOne(context.Background(), folderID, &sources.RemoteURL{URL: srv.URL + "/a.png"})
	if err != nil {
		t.Fatalf("read-back failure must not fail the item: %s", err)
	}
	got, _ := folder.DownloadFile(context.Background(), item.FolderItemID)
	if !bytes.Equal(got, payload) {
		t.Fatal("original bytes should flow to folder when read-back fails")
	}
	if item.ObjectStoreURL == "" {
		t.Fatal("put succeeded, url should be present")
	}
}

func TestReplicateOneFolderStoreDown(t *testing.T) {
	srv := newMediaServer(t, []byte("img-bytes"))
	obj, folder := newTestStores()
	folderID := mustFolder(t, folder)
	folder.FailUpload = true
	r, _ := replicate.NewReplicator(obj, folder, nil)

	_, err := r.ReplicateOne(context.Background(), folderID, &sources.RemoteURL{URL: srv.URL + "/a.png"})
	if err == nil {
		t.Fatal("folder store failure must fail the item")
	}
	if _, ok := err.(*sources.UnavailableError); !ok {
		t.Fatalf("expected UnavailableError, got %T", err)
	}
}

func TestReplicateOneIdempotent(t *testing.T) {
	payload := []byte("stable-doc")
	srv := newMediaServer(t, payload)
	obj, folder := newTestStores()
	r, _ := replicate.NewReplicator(obj, folder, nil)
	folderID := mustFolder(t, folder)
	src := &sources.RemoteURL{URL: srv.URL + "/a.png"}

	first, err := r.ReplicateOne(context.Background(), folderID, src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.ReplicateOne(context.Background(), folderID, src)
	if err != nil {
		t.Fatal(err)
	}
	if first.FolderItemID == second.FolderItemID || first.FileName == second.FileName {
		t.Fatal("repeated replication must generate fresh identifiers")
	}
	if first.MimeType != second.MimeType {
		t.Fatal("mime must be stable across runs")
	}
	b1, _ := folder.DownloadFile(context.Background(), first.FolderItemID)
	b2, _ := folder.DownloadFile(context.Background(), second.FolderItemID)
	if !bytes.Equal(b1, b2) {
		t.Fatal("byte content must be identical across runs")
	}
}
