package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-faster/errors"
)

// In-memory store fakes. They back the test suites of every package
// that consumes the capability interfaces, with switches to force
// failures on any single operation.

type MemObjectStore struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte

	FailPut bool
	FailGet bool

	PutCalls int
	GetCalls int
}

func NewMemObjectStore() *MemObjectStore {
	return &MemObjectStore{
		BaseURL: "https://obj.test",
		Objects: map[string][]byte{},
	}
}

func (m *MemObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.FailPut {
		return "", &StoreError{Op: "put " + key, Err: errors.New("forced put failure")}
	}
	url := fmt.Sprintf("%s/%s", m.BaseURL, key)
	buf := make([]byte, len(data))
	copy(buf, data)
	m.Objects[url] = buf
	return url, nil
}

func (m *MemObjectStore) Get(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.FailGet {
		return nil, &FetchError{Op: "get " + url, Err: errors.New("forced get failure")}
	}
	data, ok := m.Objects[url]
	if !ok {
		return nil, &FetchError{Op: "get " + url, Err: errors.New("no such object")}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

type MemFolder struct {
	ID       string
	ParentID string
	Name     string
}

type MemFile struct {
	ID       string
	FolderID string
	Name     string
	Mime     string
	Data     []byte
}

type MemFolderStore struct {
	mu      sync.Mutex
	Folders map[string]*MemFolder
	Files   map[string]*MemFile

	FailEnsure bool
	FailCreate bool
	FailUpload bool
	FailDelete bool
	FailRead   bool

	DownloadCalls int
	DeleteCalls   int

	nextID int
}

func NewMemFolderStore() *MemFolderStore {
	return &MemFolderStore{
		Folders: map[string]*MemFolder{},
		Files:   map[string]*MemFile{},
	}
}

func (m *MemFolderStore) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailEnsure {
		return "", &StoreError{Op: "ensure " + name, Err: errors.New("forced ensure failure")}
	}
	for _, f := range m.Folders {
		if f.ParentID == parentID && f.Name == name {
			return f.ID, nil
		}
	}
	return m.newFolder(parentID, name), nil
}

func (m *MemFolderStore) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreate {
		return "", &StoreError{Op: "create " + name, Err: errors.New("forced create failure")}
	}
	return m.newFolder(parentID, name), nil
}

func (m *MemFolderStore) newFolder(parentID, name string) string {
	m.nextID++
	f := &MemFolder{
		ID:       fmt.Sprintf("folder-%d", m.nextID),
		ParentID: parentID,
		Name:     name,
	}
	m.Folders[f.ID] = f
	return f.ID
}

func (m *MemFolderStore) UploadFile(ctx context.Context, folderID, name string, data []byte, mimeType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpload {
		return "", &StoreError{Op: "upload " + name, Err: errors.New("forced upload failure")}
	}
	if _, ok := m.Folders[folderID]; !ok {
		return "", &StoreError{Op: "upload " + name, Err: errors.Errorf("no such folder %s", folderID)}
	}
	m.nextID++
	buf := make([]byte, len(data))
	copy(buf, data)
	f := &MemFile{
		ID:       fmt.Sprintf("file-%d", m.nextID),
		FolderID: folderID,
		Name:     name,
		Mime:     mimeType,
		Data:     buf,
	}
	m.Files[f.ID] = f
	return f.ID, nil
}

func (m *MemFolderStore) DownloadFile(ctx context.Context, itemID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DownloadCalls++
	if m.FailRead {
		return nil, &FetchError{Op: "download " + itemID, Err: errors.New("forced read failure")}
	}
	f, ok := m.Files[itemID]
	if !ok {
		return nil, &FetchError{Op: "download " + itemID, Err: errors.New("no such file")}
	}
	buf := make([]byte, len(f.Data))
	copy(buf, f.Data)
	return buf, nil
}

func (m *MemFolderStore) DeleteFolder(ctx context.Context, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.FailDelete {
		return &StoreError{Op: "delete " + folderID, Err: errors.New("forced delete failure")}
	}
	delete(m.Folders, folderID)
	for id, f := range m.Files {
		if f.FolderID == folderID {
			delete(m.Files, id)
		}
	}
	return nil
}

// FolderExists reports whether a folder id is still present. Test
// helper only.
func (m *MemFolderStore) FolderExists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Folders[id]
	return ok
}

// FilesIn lists the files under one folder in no particular order.
func (m *MemFolderStore) FilesIn(folderID string) []*MemFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*MemFile
	for _, f := range m.Files {
		if f.FolderID == folderID {
			out = append(out, f)
		}
	}
	return out
}
