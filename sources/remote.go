package sources

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/go-faster/errors"
	"github.com/postforge/media-mirror/commons"
)

var defaultClient = &http.Client{Timeout: 20 * time.Second}

// RemoteURL fetches media over HTTP. The extension comes from the URL
// path when it has one, from the Content-Type header otherwise, and
// from byte sniffing as a last resort.
type RemoteURL struct {
	URL    string
	Client *http.Client
}

func (s *RemoteURL) Ref() string {
	return s.URL
}

func (s *RemoteURL) Fetch(ctx context.Context) (*commons.Item, error) {
	client := s.Client
	if client == nil {
		client = defaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &UnavailableError{Ref: s.URL, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &UnavailableError{Ref: s.URL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UnavailableError{Ref: s.URL, Err: errors.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Ref: s.URL, Err: errors.Wrap(err, "read body")}
	}

	ext := commons.ExtFromLink(s.URL)
	if ext == "" {
		ext = commons.ExtFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		ext = commons.ExtFromSniff(data)
	}
	return &commons.Item{
		Src:      s.URL,
		FileName: fileNameFromURL(s.URL, ext),
		Ext:      ext,
		Mime:     commons.MimeFromExt(ext),
		Type:     commons.TypeFromExt(ext),
		Data:     data,
	}, nil
}

func fileNameFromURL(link, ext string) string {
	p := link
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" || base == "" {
		return "file" + ext
	}
	if path.Ext(base) == "" {
		return base + ext
	}
	return base
}
