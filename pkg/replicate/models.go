package replicate

import (
	"fmt"
	"strings"

	"github.com/postforge/media-mirror/sources"
)

// MissingItem is one source that could not be replicated, in input
// order. Any missing item invalidates the whole batch.
type MissingItem struct {
	Source sources.Source
	Reason string
}

// IncompleteBatchError is the terminal failure of a batch. By the time
// the caller sees it the post folder has already been deleted
// (best-effort), so no partial folder is left behind.
type IncompleteBatchError struct {
	Missing []MissingItem
}

func (e *IncompleteBatchError) Error() string {
	refs := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		refs = append(refs, fmt.Sprintf("%s (%s)", m.Source.Ref(), m.Reason))
	}
	return fmt.Sprintf("incomplete batch, %d missing: %s", len(e.Missing), strings.Join(refs, ", "))
}

type BatchCfg struct {
	RootFolder  string // display name of the singleton top-level folder
	KeyPrefix   string // object key namespace
	Workers     int    // per-batch replication workers, 1 = sequential
	CaptionFile string
}

func (cfg *BatchCfg) sanitize() error {
	if cfg.RootFolder == "" {
		cfg.RootFolder = "Social Media Automation"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "posts"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CaptionFile == "" {
		cfg.CaptionFile = "caption.txt"
	}
	return nil
}
