package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/indieinfra/pixrelay/server/resp"
	"github.com/indieinfra/pixrelay/server/util"
	storageutil "github.com/indieinfra/pixrelay/storage/util"
)

const DefaultProbeTimeout = 5 * time.Second

// RelayClient talks to a self-hosted upload relay. It is the orchestrator's
// primary path: one availability probe, then at most one direct multipart
// attempt with no further fallback chain.
type RelayClient struct {
	baseURL      string
	httpClient   *http.Client
	probeTimeout time.Duration
}

func NewRelayClient(baseURL string, httpClient *http.Client) *RelayClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &RelayClient{
		baseURL:      storageutil.NormalizeBaseURL(baseURL),
		httpClient:   httpClient,
		probeTimeout: DefaultProbeTimeout,
	}
}

// WithProbeTimeout overrides the availability probe deadline.
func (c *RelayClient) WithProbeTimeout(d time.Duration) *RelayClient {
	c.probeTimeout = d
	return c
}

// Probe reports whether the relay answers its health endpoint before the
// probe deadline. The request is cancelled at the deadline so an unreachable
// relay costs at most probeTimeout of wall clock.
func (c *RelayClient) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	return res.StatusCode >= 200 && res.StatusCode < 300
}

// Upload performs a single direct multipart POST of the source file.
func (c *RelayClient) Upload(ctx context.Context, src Source) (Reference, error) {
	f, err := src.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	filename := src.filename()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", util.MimeTypeOf(filename))

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to buffer source file: %w", err)
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doUpload(req)
}

// UploadBase64 sends raw bytes through the relay's base64 endpoint. The
// migration resolver uses this path to pull legacy objects forward.
func (c *RelayClient) UploadBase64(ctx context.Context, filename string, mimeType string, data []byte) (Reference, error) {
	payload, err := json.Marshal(map[string]string{
		"image":    util.EncodeDataURL(mimeType, data),
		"filename": filename,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/base64", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doUpload(req)
}

func (c *RelayClient) doUpload(req *http.Request) (Reference, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("relay answered status %d", res.StatusCode)
	}

	var out resp.UploadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode relay response: %w", err)
	}

	if !out.Success || out.File.Url == "" {
		return "", fmt.Errorf("relay response carried no file url")
	}

	return Reference(out.File.Url), nil
}
