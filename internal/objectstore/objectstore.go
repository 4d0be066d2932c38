// Package objectstore archives generated artifacts (QR images, menu sheets)
// in an S3-compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultURLExpiry = 24 * time.Hour

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Store struct {
	mc     *minio.Client
	bucket string
	expiry time.Duration
}

func New(cfg Config) (*Store, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Store{mc: mc, bucket: cfg.Bucket, expiry: defaultURLExpiry}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Archive uploads data under key and returns a presigned download URL.
func (s *Store) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.mc.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", baseName(key)))
	u, err := s.mc.PresignedGetObject(ctx, s.bucket, key, s.expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

// Key builds a dated object key such as "qr/2026/03/01/<id>-qr-code-menu.png".
func Key(kind, id, name string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s-%s", kind, now.UTC().Format("2006/01/02"), id, name)
}

func baseName(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '/' {
			return key[i+1:]
		}
	}
	return key
}
