package commons

import (
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ExtFromLink pulls a file extension (with leading dot, lowercased) out
// of a URL or path, ignoring any query string. Returns "" when the last
// segment has no extension.
func ExtFromLink(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		p = u.Path
	}
	return strings.ToLower(path.Ext(path.Base(p)))
}

// ExtFromContentType maps a Content-Type header value to an extension.
func ExtFromContentType(ct string) string {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "mp4"):
		return ".mp4"
	}
	return ""
}

// ExtFromSniff detects an extension from the payload bytes. Falls back
// to ".bin" when detection yields nothing usable.
func ExtFromSniff(data []byte) string {
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		return ".bin"
	}
	return ext
}

func IsImgExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, suff := range IMG_SUFFIX {
		if ext == suff {
			return true
		}
	}
	return false
}

// MimeFromExt classifies image extensions to their image/* type and
// everything else to a generic video type.
func MimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "video/mp4"
	}
}

func TypeFromExt(ext string) MediaType {
	if IsImgExt(ext) {
		return IMG_TYPE
	}
	return VID_TYPE
}
