package factory

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/indieinfra/pixrelay/config"
	"github.com/indieinfra/pixrelay/storage/blob"
)

type stubStore struct{}

func (stubStore) Put(context.Context, string, string, io.Reader, int64) (*blob.Object, error) {
	return &blob.Object{}, nil
}
func (stubStore) Open(context.Context, string) (io.ReadCloser, error) { return nil, blob.ErrNotFound }

func TestCreate_UsesRegisteredFactory(t *testing.T) {
	Register("stub", func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return stubStore{}, nil
	})

	store, err := Create(&config.Storage{Strategy: "stub"}, "http://example.org")
	if err != nil {
		t.Fatalf("expected store, got error %v", err)
	}
	if _, ok := store.(stubStore); !ok {
		t.Fatalf("unexpected store type: %T", store)
	}
}

func TestCreate_UnknownStrategy(t *testing.T) {
	if _, err := Create(&config.Storage{Strategy: "telegraph"}, ""); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestCreate_PropagatesFactoryError(t *testing.T) {
	Register("failing", func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return nil, errors.New("failed")
	})

	if _, err := Create(&config.Storage{Strategy: "failing"}, ""); err == nil {
		t.Fatalf("expected factory error to propagate")
	}
}

func TestBuiltinStrategiesRegistered(t *testing.T) {
	for _, strategy := range []string{"noop", "filesystem", "s3"} {
		if _, ok := Get(strategy); !ok {
			t.Fatalf("expected %q strategy to be registered", strategy)
		}
	}
}

func TestCreate_Noop(t *testing.T) {
	store, err := Create(&config.Storage{Strategy: "noop"}, "")
	if err != nil {
		t.Fatalf("expected noop store, got %v", err)
	}
	if _, ok := store.(*blob.NoopStore); !ok {
		t.Fatalf("unexpected store type: %T", store)
	}
}
