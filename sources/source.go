package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/postforge/media-mirror/commons"
)

// Source is one requested media input: either a remote URL or a local
// path. Fetch turns it into bytes plus derived name/type metadata.
type Source interface {
	Ref() string
	Fetch(context.Context) (*commons.Item, error)
}

// UnavailableError means a single source could not be turned into bytes
// or could not be committed to the mandatory folder tier. It is local to
// one item; batch processing aggregates it, never aborts on it.
type UnavailableError struct {
	Ref string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Ref, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Reason extracts the short failure reason out of an item error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var ue *UnavailableError
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

type ParseOpts struct {
	StagingRoot string
}

// Parse maps a raw string to the right source kind. Anything that is
// not an http(s) URL is treated as a local path.
func Parse(raw string, opts ParseOpts) Source {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return &RemoteURL{URL: raw}
	}
	return &LocalPath{Path: raw, StagingRoot: opts.StagingRoot}
}
