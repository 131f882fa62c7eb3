package server

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/indieinfra/pixrelay/config"
	"github.com/indieinfra/pixrelay/storage/blob"
	"github.com/indieinfra/pixrelay/storage/blob/factory"
)

type stubStore struct{}

func (stubStore) Put(context.Context, string, string, io.Reader, int64) (*blob.Object, error) {
	return &blob.Object{}, nil
}
func (stubStore) Open(context.Context, string) (io.ReadCloser, error) { return nil, blob.ErrNotFound }

func TestInitializeStore_UsesRegisteredFactory(t *testing.T) {
	strategy := "stub-store"
	factory.Register(strategy, func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return stubStore{}, nil
	})

	store, err := initializeStore(&config.Storage{Strategy: strategy}, "http://example.org")
	if err != nil {
		t.Fatalf("expected store, got error %v", err)
	}
	if _, ok := store.(stubStore); !ok {
		t.Fatalf("unexpected store type: %T", store)
	}
}

func TestInitializeStore_Error(t *testing.T) {
	strategy := "error-store"
	factory.Register(strategy, func(cfg *config.Storage, publicURL string) (blob.Store, error) {
		return nil, errors.New("failed")
	})

	if _, err := initializeStore(&config.Storage{Strategy: strategy}, ""); err == nil {
		t.Fatalf("expected error for failing factory")
	}
}

func TestStartServer_FailsWhenInitializationFails(t *testing.T) {
	cfg := &config.Config{
		Server:  config.Server{Address: "127.0.0.1", Port: 0, PublicUrl: "http://example.org"},
		Storage: config.Storage{Strategy: "unknown"},
	}

	if err := StartServer(cfg); err == nil {
		t.Fatalf("expected StartServer to fail for unknown strategy")
	}
}

func TestStartServer_ShutsDownOnSignal(t *testing.T) {
	cfg := &config.Config{
		Server: config.Server{
			Address:   "127.0.0.1",
			Port:      0,
			PublicUrl: "http://example.org",
			Limits:    config.ServerLimits{MaxFileSize: 1 << 20},
		},
		Storage: config.Storage{Strategy: "noop"},
	}

	done := make(chan struct{})
	go func() {
		if err := StartServer(cfg); err != nil {
			t.Errorf("StartServer returned error: %v", err)
		}
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	proc, _ := os.FindProcess(os.Getpid())
	_ = proc.Signal(syscall.SIGINT)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not shut down after signal")
	}
}
