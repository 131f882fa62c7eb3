package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/indieinfra/pixrelay/config"
	storageutil "github.com/indieinfra/pixrelay/storage/util"
)

// FilesystemStore writes uploaded images into a flat local directory and is
// the default backend of the relay server.
type FilesystemStore struct {
	basePath  string
	publicURL string
}

func NewFilesystemStore(cfg *config.FilesystemStrategy, publicURL string) (*FilesystemStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("filesystem storage config is nil")
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &FilesystemStore{
		basePath:  cfg.Path,
		publicURL: storageutil.NormalizeBaseURL(publicURL),
	}, nil
}

func (fs *FilesystemStore) Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (*Object, error) {
	absPath, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}

	outFile, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	written, err := io.Copy(outFile, r)
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &Object{
		Name:     name,
		MimeType: contentType,
		Size:     written,
		Url:      fmt.Sprintf("%s/uploads/%s", fs.publicURL, name),
	}, nil
}

func (fs *FilesystemStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	absPath, err := fs.resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

// resolve rejects names that would escape the upload directory.
func (fs *FilesystemStore) resolve(name string) (string, error) {
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "\\") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid object name %q: %w", name, ErrNotFound)
	}

	return filepath.Join(fs.basePath, name), nil
}
