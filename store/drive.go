package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	. "github.com/postforge/media-mirror/pkg/log"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStore is the Google Drive folder tier. The token source is the
// opaque credential capability handed in at process start; refresh is
// its problem, not ours.
type DriveStore struct {
	svc *drive.Service
}

func NewDriveStore(ctx context.Context, ts oauth2.TokenSource) (*DriveStore, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, errors.Wrap(err, "create drive service")
	}
	return &DriveStore{svc: svc}, nil
}

func (d *DriveStore) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false",
		escapeQuery(name), folderMimeType)
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}
	res, err := d.svc.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", &StoreError{Op: fmt.Sprintf("list folder %s", name), Err: err}
	}
	if len(res.Files) > 0 {
		Debugf("found existing folder", "name", name, "id", res.Files[0].Id)
		return res.Files[0].Id, nil
	}
	return d.CreateFolder(ctx, parentID, name)
}

func (d *DriveStore) CreateFolder(ctx context.Context, parentID, name string) (string, error) {
	meta := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	folder, err := d.svc.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", &StoreError{Op: fmt.Sprintf("create folder %s", name), Err: err}
	}
	Infof("created drive folder", "name", name, "id", folder.Id)
	return folder.Id, nil
}

func (d *DriveStore) UploadFile(ctx context.Context, folderID, name string, data []byte, mimeType string) (string, error) {
	meta := &drive.File{Name: name, Parents: []string{folderID}}
	f, err := d.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return "", &StoreError{Op: fmt.Sprintf("upload %s", name), Err: err}
	}
	return f.Id, nil
}

func (d *DriveStore) DownloadFile(ctx context.Context, itemID string) ([]byte, error) {
	resp, err := d.svc.Files.Get(itemID).Context(ctx).Download()
	if err != nil {
		return nil, &FetchError{Op: fmt.Sprintf("download %s", itemID), Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Op: fmt.Sprintf("read %s", itemID), Err: err}
	}
	return data, nil
}

func (d *DriveStore) DeleteFolder(ctx context.Context, folderID string) error {
	err := d.svc.Files.Delete(folderID).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			Warnf("folder already gone", "id", folderID)
			return nil
		}
		return &StoreError{Op: fmt.Sprintf("delete folder %s", folderID), Err: err}
	}
	return nil
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}
