package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"yamdb-backend/internal/config"
)

// MinIOStorage đọc fixture files từ một bucket MinIO/S3, giới hạn trong prefix.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOStorage khởi tạo MinIO client và kiểm tra bucket tồn tại.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig, bucket, prefix string) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL, // false cho local, true cho production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &MinIOStorage{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Open mở object prefix/name. Object không tồn tại trả lỗi ngay thay vì lúc đọc.
func (s *MinIOStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(s.prefix, name)

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	return object, nil
}

func (s *MinIOStorage) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}
