package util

import (
	"fmt"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// imageMimeTypes maps known image extensions to canonical MIME strings.
var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// MimeTypeOf derives a MIME type from the extension of a path or URI.
// Unknown and missing extensions fall back to image/jpeg: mobile pickers
// frequently hand over extensionless temp paths for camera JPEG output, and
// the clients depend on that default.
func MimeTypeOf(pathOrURI string) string {
	ext := strings.ToLower(path.Ext(TrailingSegment(pathOrURI)))
	if mt, ok := imageMimeTypes[ext]; ok {
		return mt
	}

	return "image/jpeg"
}

// ExtensionFor returns the preferred extension (with leading dot) for a known
// image MIME type, or ".jpg" when the type is unrecognized.
func ExtensionFor(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	for ext, known := range imageMimeTypes {
		if known == mt && ext != ".jpeg" && ext != ".heif" {
			return ext
		}
	}

	return ".jpg"
}

// SafeFilename extracts the trailing path segment of a path or URI and slugs
// its base name. When no usable segment with a dot-extension exists, a
// generated name of the form "image_{unixMillis}_{rand}.jpg" is returned.
func SafeFilename(pathOrURI string) string {
	segment := TrailingSegment(pathOrURI)
	ext := path.Ext(segment)

	if segment == "" || ext == "" || ext == segment {
		return fmt.Sprintf("image_%d_%d.jpg", time.Now().UnixMilli(), rand.Intn(10000))
	}

	base := slug.Make(strings.TrimSuffix(segment, ext))
	if base == "" {
		return fmt.Sprintf("image_%d_%d%s", time.Now().UnixMilli(), rand.Intn(10000), strings.ToLower(ext))
	}

	return base + strings.ToLower(ext)
}

// TrailingSegment returns the final path segment of a path or URI, with any
// query string removed.
func TrailingSegment(pathOrURI string) string {
	s := pathOrURI
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}

	return s
}

// IsImageMimeType reports whether a declared content type names an image.
func IsImageMimeType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}
