package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/postforge/media-mirror/commons"
)

// LocalPath reads media off the local filesystem. Caller-relative
// staging paths (the "/temp_*" folders the generator writes into) are
// resolved against StagingRoot before use.
type LocalPath struct {
	Path        string
	StagingRoot string
}

func (s *LocalPath) Ref() string {
	return s.Path
}

func (s *LocalPath) Fetch(ctx context.Context) (*commons.Item, error) {
	abs, err := s.resolve()
	if err != nil {
		return nil, &UnavailableError{Ref: s.Path, Err: err}
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return nil, &UnavailableError{Ref: s.Path, Err: errors.New("not found")}
	}
	if err != nil {
		return nil, &UnavailableError{Ref: s.Path, Err: err}
	}
	if info.IsDir() {
		return nil, &UnavailableError{Ref: s.Path, Err: errors.New("is a directory")}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &UnavailableError{Ref: s.Path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(abs))
	if ext == "" {
		ext = commons.ExtFromSniff(data)
	}
	return &commons.Item{
		Src:      s.Path,
		FileName: filepath.Base(abs),
		Ext:      ext,
		Mime:     commons.MimeFromExt(ext),
		Type:     commons.TypeFromExt(ext),
		Data:     data,
	}, nil
}

func (s *LocalPath) resolve() (string, error) {
	p := s.Path
	if s.StagingRoot != "" && strings.HasPrefix(p, "/temp_") {
		p = filepath.Join(s.StagingRoot, strings.TrimPrefix(p, "/"))
	}
	return filepath.Abs(p)
}
