package cleanup

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"

	"github.com/postforge/media-mirror/pkg/log"
	"github.com/postforge/media-mirror/store"
)

// PostRecord is the slice of a persisted scheduled post the sweep cares
// about. The persistence layer owns the full record.
type PostRecord struct {
	ID          string    `json:"id"`
	FolderID    string    `json:"folder_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// RecordStore is implemented by the persistence collaborator.
type RecordStore interface {
	FindExpired(ctx context.Context, before time.Time) ([]PostRecord, error)
	MarkDeleted(ctx context.Context, id string) error
}

// Sweeper deletes post folders once their retention window has passed,
// through the same DeleteFolder capability the batch rollback uses.
type Sweeper struct {
	records   RecordStore
	folder    store.FolderStore
	retention time.Duration
	interval  time.Duration
}

func NewSweeper(records RecordStore, folder store.FolderStore, retention, interval time.Duration) *Sweeper {
	if retention <= 0 {
		retention = time.Hour
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{records: records, folder: folder, retention: retention, interval: interval}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Warnf("cleanup sweep stopping", "reason", ctx.Err())
			return
		case <-t.C:
			if err := s.Sweep(ctx); err != nil {
				log.Errorf("sweep pass finished with errors", "err", err)
			}
		}
	}
}

// Sweep runs one pass. Per-post failures are aggregated, never abort
// the pass.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)
	posts, err := s.records.FindExpired(ctx, cutoff)
	if err != nil {
		return errors.Wrap(err, "find expired posts")
	}
	if len(posts) == 0 {
		log.Debugf("no posts due for deletion")
		return nil
	}
	log.Infof("sweeping expired posts", "count", len(posts))

	var errs error
	deleted := 0
	for _, p := range posts {
		if err := s.folder.DeleteFolder(ctx, p.FolderID); err != nil {
			log.Errorf("error deleting post folder", "post", p.ID, "folder", p.FolderID, "err", err)
			errs = multierr.Append(errs, errors.Wrapf(err, "post %s", p.ID))
			continue
		}
		if err := s.records.MarkDeleted(ctx, p.ID); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "mark deleted %s", p.ID))
			continue
		}
		deleted++
	}
	log.Infof("sweep complete", "deleted", deleted, "errors", len(multierr.Errors(errs)))
	return errs
}
