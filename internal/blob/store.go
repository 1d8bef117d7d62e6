package blob

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/e-wheels/workshop-service/internal/config"
)

// Store persists binary media payloads. The core only records storage paths
// and metadata; retrieval/signing is handled by the object store itself.
type Store interface {
	Put(ctx context.Context, bucket, path string, payload io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, bucket, path string) error
}

// MinioStore is the MinIO-backed Store.
type MinioStore struct {
	client *minio.Client
	logger *zap.Logger
}

// NewMinioStore connects to the object store and ensures the media buckets
// exist.
func NewMinioStore(ctx context.Context, cfg config.BlobConfig, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	for _, bucket := range []string{cfg.PhotoBucket, cfg.AudioBucket} {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, err
			}
			logger.Info("created media bucket", zap.String("bucket", bucket))
		}
	}

	return &MinioStore{client: client, logger: logger}, nil
}

// Put uploads one payload.
func (s *MinioStore) Put(ctx context.Context, bucket, path string, payload io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, path, payload, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Remove deletes one stored payload.
func (s *MinioStore) Remove(ctx context.Context, bucket, path string) error {
	return s.client.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{})
}
