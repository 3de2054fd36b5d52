// Package objects stores uploaded recipe images in an S3-compatible bucket.
package objects

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Storage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// New creates a MinIO client from the application config.
func New(cfg *config.App) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	base := strings.TrimRight(cfg.S3PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.S3UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.S3Endpoint, cfg.S3Bucket)
	}

	return &Storage{client: client, bucket: cfg.S3Bucket, publicBase: base}, nil
}

// EnsureBucket creates the image bucket if it does not exist yet.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", s.bucket, err)
	}
	return nil
}

// PutImage uploads an image and returns the URL the extraction service will
// fetch it from.
func (s *Storage) PutImage(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return s.URL(key), nil
}

func (s *Storage) URL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}
