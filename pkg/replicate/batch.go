package replicate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flytam/filenamify"
	"github.com/go-faster/errors"

	"github.com/postforge/media-mirror/commons"
	"github.com/postforge/media-mirror/pkg/log"
	"github.com/postforge/media-mirror/sources"
)

// ReplicateBatch mirrors every source of one post and returns the
// manifest, or an IncompleteBatchError listing every source that could
// not be replicated. The post folder is all-or-nothing: on any missing
// item it is deleted before the error surfaces.
func (r *Replicator) ReplicateBatch(ctx context.Context, srcs []sources.Source, caption, postKind string) (*commons.Manifest, error) {
	rootID, err := r.folder.EnsureFolder(ctx, "", r.cfg.RootFolder)
	if err != nil {
		return nil, errors.Wrap(err, "ensure root folder")
	}
	// The post folder is created unconditionally: name collisions in
	// the same second are fine, but the batch must own a fresh folder
	// id so its rollback can never touch another batch's folder.
	name := postFolderName(postKind, time.Now().UTC())
	folderID, err := r.folder.CreateFolder(ctx, rootID, name)
	if err != nil {
		return nil, errors.Wrap(err, "create post folder")
	}
	log.Infof("created post folder", "name", name, "id", folderID, "sources", len(srcs))

	items := make([]commons.ReplicatedItem, len(srcs))
	errs := make([]error, len(srcs))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i], errs[i] = r.ReplicateOne(ctx, folderID, srcs[i])
			}
		}()
	}
	for i := range srcs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var missing []MissingItem
	for i, err := range errs {
		if err == nil {
			continue
		}
		log.Warnf("source failed", "src", srcs[i].Ref(), "err", err)
		missing = append(missing, MissingItem{Source: srcs[i], Reason: sources.Reason(err)})
	}
	if len(missing) > 0 {
		r.rollback(ctx, folderID)
		return nil, &IncompleteBatchError{Missing: missing}
	}

	// Caption is best-effort metadata; its failure does not fail the
	// batch.
	if _, err := r.folder.UploadFile(ctx, folderID, r.cfg.CaptionFile, []byte(caption), "text/plain"); err != nil {
		log.Warnf("caption upload failed", "folder", folderID, "err", err)
	}
	log.Infof("batch replicated", "folder", folderID, "items", len(items))
	return &commons.Manifest{FolderID: folderID, Items: items}, nil
}

// rollback deletes the post folder so no partial content survives. It
// runs detached from caller cancellation: a cancelled batch must still
// clean up after itself.
func (r *Replicator) rollback(ctx context.Context, folderID string) {
	if err := r.folder.DeleteFolder(context.WithoutCancel(ctx), folderID); err != nil {
		log.Errorf("failed to delete post folder after incomplete batch", "folder", folderID, "err", err)
		return
	}
	log.Infof("deleted post folder after incomplete batch", "folder", folderID)
}

func postFolderName(postKind string, t time.Time) string {
	name := t.Format("2006-01-02_15-04-05")
	if postKind != "" {
		name = fmt.Sprintf("%s_%s", postKind, name)
	}
	if safe, err := filenamify.Filenamify(name, filenamify.Options{Replacement: "_"}); err == nil {
		return safe
	}
	return name
}
