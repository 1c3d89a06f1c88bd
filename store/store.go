package store

import (
	"context"
	"fmt"
)

// ObjectStore is the durable public-URL tier. Put returns the URL the
// object is retrievable from. No retry logic lives here; retry is the
// caller's policy.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, url string) ([]byte, error)
}

// FolderStore is the hierarchical collaborative tier. EnsureFolder is
// find-or-create; the lookup-then-create is not atomic and a benign
// race producing duplicate folders is tolerated. CreateFolder always
// makes a fresh folder with its own identifier, even when the name is
// already taken.
type FolderStore interface {
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)
	CreateFolder(ctx context.Context, parentID, name string) (string, error)
	UploadFile(ctx context.Context, folderID, name string, data []byte, mimeType string) (string, error)
	DownloadFile(ctx context.Context, itemID string) ([]byte, error)
	DeleteFolder(ctx context.Context, folderID string) error
}

// StoreError wraps a transport-level write failure. Callers absorb it
// at the call site; it never propagates raw.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// FetchError wraps a transport-level read failure.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
