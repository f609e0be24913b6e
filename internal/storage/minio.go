package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Transfer moves asset bytes between the object stores and local scratch
// space. Both operations are remote and potentially slow; callers bound them
// with a deadline. No retry happens here.
type Transfer interface {
	// Download fetches name from the raw bucket into the raw scratch dir.
	Download(ctx context.Context, name string) error
	// Upload pushes name from the processed scratch dir to the processed bucket.
	Upload(ctx context.Context, name string) error
}

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	accessKey       string
	secretAccessKey string
	rawBucket       string
	processedBucket string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type MinioTransfer struct {
	cfg     *minioConfig
	client  *minio.Client
	scratch Scratch
}

// Make sure we conform to Transfer interface
var _ Transfer = (*MinioTransfer)(nil)

// NewMinioTransfer builds the shared transfer client. It holds no per-request
// state; one instance serves all concurrent requests.
func NewMinioTransfer(scratch Scratch, opts ...MinioOpts) (*MinioTransfer, error) {
	cfg := newConfig(opts...)

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioTransfer{cfg: cfg, client: minioClient, scratch: scratch}, nil
}

func (t *MinioTransfer) Download(ctx context.Context, name string) error {
	localPath := t.scratch.RawPath(name)
	if err := t.client.FGetObject(ctx, t.cfg.rawBucket, name, localPath, minio.GetObjectOptions{}); err != nil {
		return err
	}

	zap.S().Named("storage").Infof("s3://%s/%s downloaded to %s", t.cfg.rawBucket, name, localPath)
	return nil
}

func (t *MinioTransfer) Upload(ctx context.Context, name string) error {
	localPath := t.scratch.ProcessedPath(name)
	if _, err := t.client.FPutObject(ctx, t.cfg.processedBucket, name, localPath, minio.PutObjectOptions{}); err != nil {
		return err
	}

	zap.S().Named("storage").Infof("%s uploaded to s3://%s/%s", localPath, t.cfg.processedBucket, name)
	return nil
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithRawBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.rawBucket = bucket
	}
}

func WithProcessedBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.processedBucket = bucket
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
