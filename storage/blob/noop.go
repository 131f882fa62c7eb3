package blob

import (
	"context"
	"io"
	"log"
)

// NoopStore discards uploads and serves nothing. Useful for smoke-testing the
// HTTP surface without touching disk.
type NoopStore struct{}

func (ns *NoopStore) Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (*Object, error) {
	written, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, err
	}

	log.Printf("noop store discarded %q (%s, %d bytes)", name, contentType, written)

	return &Object{
		Name:     name,
		MimeType: contentType,
		Size:     written,
		Url:      "https://noop.example.org/uploads/" + name,
	}, nil
}

func (ns *NoopStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return nil, ErrNotFound
}
