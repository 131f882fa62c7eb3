package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"
)

var ErrNotFound = errors.New("object not found")

// Object describes one persisted image file. Name is immutable once assigned;
// the URL is derived from the store's location, never persisted.
type Object struct {
	Name     string
	MimeType string
	Size     int64
	Url      string
}

// Store persists image blobs under collision-resistant names and serves them
// back. Writes are append-only: a store never overwrites an existing object.
type Store interface {
	Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (*Object, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// NewObjectName generates a name of the form "{unixMillis}-{rand}{ext}".
// The timestamp plus random component keeps concurrent writers from ever
// colliding, so stores need no cross-request locking.
func NewObjectName(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), strings.ToLower(ext))
}
