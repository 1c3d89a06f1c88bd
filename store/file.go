package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/postforge/media-mirror/pkg/log"
)

// FileStore is a filesystem-backed folder tier for dev runs and tests.
// Folder and item identifiers are absolute paths.
type FileStore struct {
	Base string
}

func NewFileStore(base string) (*FileStore, error) {
	if base == "" {
		base = "./mirror"
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}
	Infof("file store base", "path", abs)
	return &FileStore{Base: abs}, nil
}

func (f *FileStore) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	parent := parentID
	if parent == "" {
		parent = f.Base
	}
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &StoreError{Op: "create dir " + dir, Err: err}
	}
	return dir, nil
}

// CreateFolder always yields a fresh directory; a taken name gets a
// numeric suffix so the identifier never aliases an earlier folder.
func (f *FileStore) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	parent := parentID
	if parent == "" {
		parent = f.Base
	}
	dir := filepath.Join(parent, name)
	for n := 2; ; n++ {
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", &StoreError{Op: "create dir " + dir, Err: err}
		}
		dir = filepath.Join(parent, fmt.Sprintf("%s_%d", name, n))
	}
}

func (f *FileStore) UploadFile(ctx context.Context, folderID, name string, data []byte, mimeType string) (string, error) {
	path := filepath.Join(folderID, name)
	outfile, err := os.Create(path)
	if err != nil {
		return "", &StoreError{Op: "create " + path, Err: err}
	}
	defer outfile.Close()
	if _, err := outfile.Write(data); err != nil {
		return "", &StoreError{Op: "write " + path, Err: err}
	}
	return path, nil
}

func (f *FileStore) DownloadFile(ctx context.Context, itemID string) ([]byte, error) {
	data, err := os.ReadFile(itemID)
	if err != nil {
		return nil, &FetchError{Op: "read " + itemID, Err: err}
	}
	return data, nil
}

func (f *FileStore) DeleteFolder(ctx context.Context, folderID string) error {
	err := os.RemoveAll(folderID)
	if err != nil {
		Errorf("err while deleting dir structure", "err", err)
		return &StoreError{Op: "delete " + folderID, Err: err}
	}
	Infof("cleanup success", "dir", folderID)
	return nil
}
