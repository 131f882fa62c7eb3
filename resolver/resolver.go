package resolver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/indieinfra/pixrelay/server/util"
	storageutil "github.com/indieinfra/pixrelay/storage/util"
	"github.com/indieinfra/pixrelay/uploader"
)

// Location is one storage backend that may hold an object, addressed by a
// base URL objects hang off of. Legacy locations are kept around only so
// their objects can be found and migrated forward.
type Location struct {
	ID      string
	BaseURL string
}

func (l Location) URL(id string) string {
	return storageutil.NormalizeBaseURL(l.BaseURL) + "/" + id
}

// base64Uploader is the slice of the upload orchestrator the resolver needs
// to push recovered legacy bytes into current storage.
type base64Uploader interface {
	UploadBase64(ctx context.Context, filename string, mimeType string, data []byte) (uploader.Reference, error)
}

// Resolver turns possibly-legacy object references into fetchable URLs,
// migrating legacy objects forward when it finds them. It never surfaces an
// error: the worst outcome is a deterministic placeholder URL.
type Resolver struct {
	current    Location
	legacy     []Location
	httpClient *http.Client
	uploads    base64Uploader
	logger     util.Logger
}

func New(current Location, legacy []Location, uploads base64Uploader, httpClient *http.Client, logger util.Logger) *Resolver {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Resolver{
		current:    current,
		legacy:     legacy,
		httpClient: httpClient,
		uploads:    uploads,
		logger:     logger,
	}
}

// Resolve normalizes a stored reference (bare object id or fully-qualified
// URL) into a URL the caller can fetch right now.
//
// The chain: probe current storage, then try to migrate the object out of any
// location that still has it, then serve it from its legacy home unmigrated,
// then bottom out at a generated placeholder. When migration succeeds the
// update callback is invoked exactly once with the new object id so the
// caller can rewrite its stored reference. Source objects are never deleted.
func (r *Resolver) Resolve(ctx context.Context, ref string, displayName string, update func(newID string) error) string {
	if ref != "" && (strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")) {
		return ref
	}

	if ref == "" {
		return PlaceholderURL(displayName)
	}

	currentURL := r.current.URL(ref)
	if r.head(ctx, currentURL) {
		return currentURL
	}

	if url, ok := r.migrate(ctx, ref, update); ok {
		return url
	}

	for _, loc := range r.legacy {
		legacyURL := loc.URL(ref)
		if r.head(ctx, legacyURL) {
			r.logger.Printf("serving %q unmigrated from legacy location %s", ref, loc.ID)
			return legacyURL
		}
	}

	return PlaceholderURL(displayName)
}

// migrate downloads the object from whichever location still holds it and
// re-uploads the bytes into current storage under a new id.
func (r *Resolver) migrate(ctx context.Context, ref string, update func(newID string) error) (string, bool) {
	data, mimeType, loc, ok := r.download(ctx, ref)
	if !ok {
		return "", false
	}

	newRef, err := r.uploads.UploadBase64(ctx, ref, mimeType, data)
	if err != nil {
		r.logger.Printf("migration re-upload of %q failed: %v", ref, err)
		return "", false
	}

	newID := util.TrailingSegment(string(newRef))
	r.logger.Printf("migrated %q from %s to current storage as %q", ref, loc.ID, newID)

	if update != nil {
		if err := update(newID); err != nil {
			r.logger.Printf("reference rewrite for %q failed: %v", newID, err)
		}
	}

	return r.current.URL(newID), true
}

// download probes current storage first, then each legacy location in
// configured order, with a HEAD-then-GET pair per location.
func (r *Resolver) download(ctx context.Context, ref string) ([]byte, string, Location, bool) {
	locations := append([]Location{r.current}, r.legacy...)

	for _, loc := range locations {
		url := loc.URL(ref)
		if !r.head(ctx, url) {
			continue
		}

		data, mimeType, err := r.get(ctx, url)
		if err != nil {
			r.logger.Printf("download of %q from %s failed: %v", ref, loc.ID, err)
			continue
		}

		return data, mimeType, loc, true
	}

	return nil, "", Location{}, false
}

func (r *Resolver) head(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	res, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	return res.StatusCode >= 200 && res.StatusCode < 300
}

func (r *Resolver) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	res, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, "", fmt.Errorf("download answered status %d", res.StatusCode)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", err
	}

	mimeType := res.Header.Get("Content-Type")
	if !util.IsImageMimeType(mimeType) {
		mimeType = util.MimeTypeOf(url)
	}

	return data, mimeType, nil
}
