package uploader

import (
	"fmt"
	"os"

	"github.com/indieinfra/pixrelay/server/util"
)

// Reference is an opaque handle to a stored image: a fetchable URL when the
// relay accepted the upload, or a bucket object id otherwise.
type Reference string

// Source points at local image data to upload. Name optionally overrides the
// filename derived from the path.
type Source struct {
	Path string
	Name string
}

func (s Source) filename() string {
	if s.Name != "" {
		return s.Name
	}

	return util.TrailingSegment(s.Path)
}

func (s Source) open() (*os.File, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}

	return f, nil
}

func (s Source) readAll() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	return data, nil
}
