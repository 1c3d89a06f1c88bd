package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"

	"github.com/postforge/media-mirror/commons"
	"github.com/postforge/media-mirror/pkg/log"
	"github.com/postforge/media-mirror/store"
)

// Resolver hands the publisher bytes for a replicated item. Preference
// order is fixed: object-store URL, folder-store item, direct HTTP.
// Each tier is tried once; a failure falls through to the next.
type Resolver struct {
	obj    store.ObjectStore
	folder store.FolderStore
	client *http.Client
}

func NewResolver(obj store.ObjectStore, folder store.FolderStore) *Resolver {
	return &Resolver{
		obj:    obj,
		folder: folder,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// ExhaustedError means no tier could supply the bytes. Err aggregates
// the per-tier failures.
type ExhaustedError struct {
	Item string
	Err  error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all sources exhausted for %s: %v", e.Item, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

type strategy struct {
	name  string
	ok    bool
	fetch func(context.Context) ([]byte, error)
}

func (r *Resolver) Resolve(ctx context.Context, item commons.ReplicatedItem) ([]byte, error) {
	// Ordered fallback chain, kept as an explicit list so the tie-break
	// order stays auditable.
	chain := []strategy{
		{
			name: "object-store",
			ok:   r.obj != nil && item.ObjectStoreURL != "",
			fetch: func(ctx context.Context) ([]byte, error) {
				return r.obj.Get(ctx, item.ObjectStoreURL)
			},
		},
		{
			name: "folder-store",
			ok:   r.folder != nil && item.FolderItemID != "",
			fetch: func(ctx context.Context) ([]byte, error) {
				return r.folder.DownloadFile(ctx, item.FolderItemID)
			},
		},
		{
			name: "http",
			ok:   isHTTP(item.SrcLink),
			fetch: func(ctx context.Context) ([]byte, error) {
				return r.fetchHTTP(ctx, item.SrcLink)
			},
		},
	}

	var errs error
	for _, s := range chain {
		if !s.ok {
			continue
		}
		data, err := s.fetch(ctx)
		if err == nil {
			log.Debugf("resolved item", "file", item.FileName, "via", s.name)
			return data, nil
		}
		log.Warnf("resolve tier failed, falling through", "file", item.FileName, "tier", s.name, "err", err)
		errs = multierr.Append(errs, errors.Wrap(err, s.name))
	}
	if errs == nil {
		errs = errors.New("item carries no usable location")
	}
	return nil, &ExhaustedError{Item: item.FileName, Err: errs}
}

func (r *Resolver) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
