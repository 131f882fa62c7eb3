package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/pixrelay/config"
	storageutil "github.com/indieinfra/pixrelay/storage/util"
)

// s3Client is the subset of the minio client the store needs, kept as an
// interface so tests can stub it.
type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	return minio.New(endpoint, opts)
}

// S3Store persists images to any S3-compatible service (AWS, R2, MinIO).
type S3Store struct {
	client       s3Client
	bucket       string
	publicBase   string
	endpointHost string
	region       string
}

func NewS3Store(cfg *config.S3Strategy) (*S3Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 storage config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else {
		if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
			endpointHost = parsed.Host
		}
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyId, cfg.SecretKeyId, ""),
		Secure:       true,
		Region:       region,
		BucketLookup: minio.BucketLookupAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.Bucket)
	}

	return &S3Store{
		client:       client,
		bucket:       cfg.Bucket,
		publicBase:   storageutil.NormalizeBaseURL(cfg.PublicUrl),
		endpointHost: endpointHost,
		region:       cfg.Region,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, name string, contentType string, r io.Reader, size int64) (*Object, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}

	info, err := s.client.PutObject(ctx, s.bucket, name, r, size, opts)
	if err != nil {
		return nil, fmt.Errorf("upload to s3 failed: %w", err)
	}

	written := info.Size
	if written == 0 {
		written = size
	}

	return &Object{
		Name:     name,
		MimeType: contentType,
		Size:     written,
		Url:      s.objectURL(name),
	}, nil
}

func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch from s3 failed: %w", err)
	}

	// minio defers the request until the first read; surface missing objects
	// as ErrNotFound so the handler can answer 404.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat s3 object failed: %w", err)
	}

	return obj, nil
}

func (s *S3Store) objectURL(name string) string {
	if s.publicBase != "" {
		return fmt.Sprintf("%s/%s", s.publicBase, name)
	}

	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpointHost, name)
}
