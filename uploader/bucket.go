package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/pixrelay/server/util"
)

// bucketS3Client is the subset of the minio client the SDK strategy needs.
type bucketS3Client interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var newBucketS3Client = func(endpoint string, opts *minio.Options) (bucketS3Client, error) {
	return minio.New(endpoint, opts)
}

type BucketConfig struct {
	Endpoint  string // host[:port], no scheme
	Secure    bool
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
}

// BucketClient reaches an S3-compatible object store both through the SDK and
// through raw HTTP. The raw paths exist because mobile transport stacks fail
// in ways the SDK path does not, and vice versa; each quirk gets its own
// strategy in the fallback chain.
type BucketClient struct {
	cfg        BucketConfig
	s3         bucketS3Client
	httpClient *http.Client
}

func NewBucketClient(cfg BucketConfig, httpClient *http.Client) (*BucketClient, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket endpoint and name are required")
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client, err := newBucketS3Client(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &BucketClient{
		cfg:        cfg,
		s3:         client,
		httpClient: httpClient,
	}, nil
}

// Strategies returns the fixed fallback chain, in priority order.
func (c *BucketClient) Strategies() []Strategy {
	return []Strategy{
		&sdkStrategy{c},
		&rawMultipartStrategy{c},
		&streamedMultipartStrategy{c},
		&base64Strategy{c},
	}
}

func (c *BucketClient) scheme() string {
	if c.cfg.Secure {
		return "https"
	}

	return "http"
}

func (c *BucketClient) bucketURL() string {
	return fmt.Sprintf("%s://%s/%s", c.scheme(), c.cfg.Endpoint, c.cfg.Bucket)
}

// ObjectURL constructs the path-style URL of an object in this bucket.
func (c *BucketClient) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s", c.bucketURL(), key)
}

// sdkStrategy uploads through the store's native SDK.
type sdkStrategy struct{ c *BucketClient }

func (s *sdkStrategy) Name() string { return "sdk-multipart" }

func (s *sdkStrategy) Attempt(ctx context.Context, src Source, key string) (Reference, error) {
	f, err := src.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat source file: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: util.MimeTypeOf(src.filename())}
	if _, err := s.c.s3.PutObject(ctx, s.c.cfg.Bucket, key, f, info.Size(), opts); err != nil {
		return "", fmt.Errorf("sdk upload failed: %w", err)
	}

	return Reference(key), nil
}

// rawMultipartStrategy hand-builds a browser-style POST form upload against
// the bucket endpoint, bypassing the SDK entirely.
type rawMultipartStrategy struct{ c *BucketClient }

func (s *rawMultipartStrategy) Name() string { return "raw-multipart" }

func (s *rawMultipartStrategy) Attempt(ctx context.Context, src Source, key string) (Reference, error) {
	data, err := src.readAll()
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := writeObjectForm(mw, key, util.MimeTypeOf(src.filename()), src.filename(), bytes.NewReader(data)); err != nil {
		return "", err
	}

	if err := s.c.postForm(ctx, &body, mw.FormDataContentType()); err != nil {
		return "", fmt.Errorf("raw multipart upload failed: %w", err)
	}

	return Reference(key), nil
}

// streamedMultipartStrategy streams the form body through a pipe instead of
// buffering the request, then falls back to one SDK-level retry with the same
// payload if the wire attempt fails.
type streamedMultipartStrategy struct{ c *BucketClient }

func (s *streamedMultipartStrategy) Name() string { return "streamed-multipart" }

func (s *streamedMultipartStrategy) Attempt(ctx context.Context, src Source, key string) (Reference, error) {
	data, err := src.readAll()
	if err != nil {
		return "", err
	}

	contentType := util.MimeTypeOf(src.filename())

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeObjectForm(mw, key, contentType, src.filename(), bytes.NewReader(data))
		pw.CloseWithError(err)
	}()

	wireErr := s.c.postFormReader(ctx, pr, mw.FormDataContentType())
	if wireErr == nil {
		return Reference(key), nil
	}

	// One SDK retry with the same payload before giving up on this strategy.
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.c.s3.PutObject(ctx, s.c.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", fmt.Errorf("streamed upload failed (%v); sdk retry failed: %w", wireErr, err)
	}

	return Reference(key), nil
}

// base64Strategy reads the file as base64 text, reconstructs the bytes via a
// data-URL round trip and writes them with a plain HTTP request. Last resort:
// survives transport stacks that corrupt binary request bodies.
type base64Strategy struct{ c *BucketClient }

func (s *base64Strategy) Name() string { return "base64" }

func (s *base64Strategy) Attempt(ctx context.Context, src Source, key string) (Reference, error) {
	raw, err := src.readAll()
	if err != nil {
		return "", err
	}

	contentType := util.MimeTypeOf(src.filename())

	mimeType, data, err := util.ParseDataURL(util.EncodeDataURL(contentType, raw))
	if err != nil {
		return "", fmt.Errorf("base64 round trip failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.c.ObjectURL(key), bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mimeType)
	req.ContentLength = int64(len(data))

	res, err := s.c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("base64 upload failed: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("base64 upload answered status %d", res.StatusCode)
	}

	return Reference(key), nil
}

// writeObjectForm emits a browser-style object form: key and Content-Type
// fields first, the file part last, as S3-compatible POST uploads require.
func writeObjectForm(mw *multipart.Writer, key string, contentType string, filename string, r io.Reader) error {
	if err := mw.WriteField("key", key); err != nil {
		return err
	}

	if err := mw.WriteField("Content-Type", contentType); err != nil {
		return err
	}

	name := filename
	if name == "" {
		name = path.Base(key)
	}

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, r); err != nil {
		return err
	}

	return mw.Close()
}

func (c *BucketClient) postForm(ctx context.Context, body *bytes.Buffer, contentType string) error {
	return c.postFormReader(ctx, body, contentType)
}

func (c *BucketClient) postFormReader(ctx context.Context, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bucketURL(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("store answered status %d", res.StatusCode)
	}

	return nil
}
