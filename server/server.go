package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indieinfra/pixrelay/config"
	"github.com/indieinfra/pixrelay/server/handler/get"
	"github.com/indieinfra/pixrelay/server/handler/upload"
	"github.com/indieinfra/pixrelay/server/state"
	"github.com/indieinfra/pixrelay/server/util"
	"github.com/indieinfra/pixrelay/storage/blob"
	"github.com/indieinfra/pixrelay/storage/blob/factory"
)

const shutdownTimeout = 10 * time.Second

// StartServer runs the upload relay until the process receives SIGINT or
// SIGTERM, then drains in-flight requests.
func StartServer(cfg *config.Config) error {
	publicURL := cfg.Server.PublicUrl
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://%s:%d", util.LocalIPv4(), cfg.Server.Port)
		log.Printf("no public_url configured, advertising %q", publicURL)
	}

	store, err := initializeStore(&cfg.Storage, publicURL)
	if err != nil {
		return err
	}

	st := &state.RelayState{
		Cfg:     cfg,
		Store:   store,
		BaseURL: publicURL,
		Logger:  log.Default(),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /upload", withRequestLogger(st, upload.HandleImageUpload(st)))
	mux.Handle("POST /upload/base64", withRequestLogger(st, upload.HandleBase64Upload(st)))
	mux.Handle("GET /health", get.HandleHealth())
	mux.Handle("GET /uploads/{filename}", withRequestLogger(st, get.HandleServeFile(st)))

	bindAddress := fmt.Sprintf("%v:%v", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{Addr: bindAddress, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving http requests on %q", bindAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func initializeStore(cfg *config.Storage, publicURL string) (blob.Store, error) {
	store, err := factory.Create(cfg, publicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %q storage: %w", cfg.Strategy, err)
	}

	return store, nil
}

func withRequestLogger(st *state.RelayState, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl := util.WithRequest(st.Logger, r)
		next.ServeHTTP(w, r.WithContext(util.ContextWithLogger(r.Context(), rl)))
	})
}
