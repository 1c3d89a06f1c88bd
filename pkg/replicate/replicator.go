package replicate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/postforge/media-mirror/commons"
	"github.com/postforge/media-mirror/pkg/log"
	"github.com/postforge/media-mirror/sources"
	"github.com/postforge/media-mirror/store"
)

// Replicator mirrors media into the object tier and the folder tier.
// The object store may be nil (unconfigured); the folder store is
// mandatory.
type Replicator struct {
	obj    store.ObjectStore
	folder store.FolderStore
	cfg    *BatchCfg
}

func NewReplicator(obj store.ObjectStore, folder store.FolderStore, cfg *BatchCfg) (*Replicator, error) {
	if cfg == nil {
		cfg = &BatchCfg{}
	}
	if err := cfg.sanitize(); err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("folder store is required")
	}
	if obj == nil {
		log.Warnf("no object store configured, items will carry no public url")
	}
	return &Replicator{obj: obj, folder: folder, cfg: cfg}, nil
}

// ReplicateOne runs the per-item pipeline: fetch, object-store write,
// read-back, folder-store write. The object-store hop degrades
// gracefully; the folder-store hop is mandatory and its failure fails
// the item.
func (r *Replicator) ReplicateOne(ctx context.Context, folderID string, src sources.Source) (commons.ReplicatedItem, error) {
	item, err := src.Fetch(ctx)
	if err != nil {
		return commons.ReplicatedItem{}, err
	}
	name := uuid.NewString() + item.Ext

	var objURL string
	if r.obj != nil {
		key := fmt.Sprintf("%s/%s", r.cfg.KeyPrefix, name)
		url, err := r.obj.Put(ctx, key, item.Data, item.Mime)
		if err != nil {
			log.Warnf("object store write failed, carrying original bytes", "src", src.Ref(), "err", err)
		} else {
			objURL = url
			// Read back so the folder copy is byte-identical to what
			// the public URL serves.
			data, err := r.obj.Get(ctx, url)
			if err != nil {
				log.Warnf("object store read back failed, folder copy may diverge", "url", url, "err", err)
			} else {
				item.Data = data
			}
		}
	}

	itemID, err := r.folder.UploadFile(ctx, folderID, name, item.Data, item.Mime)
	if err != nil {
		return commons.ReplicatedItem{}, &sources.UnavailableError{Ref: src.Ref(), Err: err}
	}
	log.Debugf("replicated item", "src", src.Ref(), "file", name, "folderItem", itemID)

	rep := commons.ReplicatedItem{
		FolderItemID:   itemID,
		ObjectStoreURL: objURL,
		FileName:       name,
		MimeType:       item.Mime,
	}
	if _, ok := src.(*sources.RemoteURL); ok {
		rep.SrcLink = src.Ref()
	}
	return rep, nil
}
