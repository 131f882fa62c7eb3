package factory

import (
	"fmt"
	"sync"

	"github.com/indieinfra/pixrelay/config"
	"github.com/indieinfra/pixrelay/storage/blob"
)

// Factory builds a blob store for the provided storage config. The publicURL
// is the externally advertised base the store should embed in object URLs.
type Factory func(cfg *config.Storage, publicURL string) (blob.Store, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds or replaces a blob store factory for the given strategy name.
func Register(strategy string, factory Factory) {
	mu.Lock()
	registry[strategy] = factory
	mu.Unlock()
}

// Get retrieves a factory for the given strategy.
func Get(strategy string) (Factory, bool) {
	mu.RLock()
	f, ok := registry[strategy]
	mu.RUnlock()
	return f, ok
}

// Create builds a blob store using the registered factory for the configured strategy.
func Create(cfg *config.Storage, publicURL string) (blob.Store, error) {
	if f, ok := Get(cfg.Strategy); ok {
		return f(cfg, publicURL)
	}

	return nil, fmt.Errorf("unknown storage strategy %q", cfg.Strategy)
}

func init() {
	Register("noop", func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return &blob.NoopStore{}, nil
	})
	Register("filesystem", func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return blob.NewFilesystemStore(cfg.Filesystem, publicURL)
	})
	Register("s3", func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return blob.NewS3Store(cfg.S3)
	})
}
