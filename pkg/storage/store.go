// Package storage persists uploaded images to local disk or an object store
// and hands back the URL the poster editor should reference.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrInvalidKey = errors.New("storage: invalid object key")

// Store writes objects under a key such as "images/2025/arroz.png".
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type Config struct {
	Driver string

	// local
	Dir     string
	BaseURL string

	// s3
	Bucket   string
	Region   string
	Endpoint string

	// gcs
	GCSBucket string

	Prefix string
}

// New builds the store named by cfg.Driver: "local" (default), "s3" or "gcs".
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocalStore(cfg.Dir, cfg.BaseURL)
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("storage: S3_BUCKET is required for the s3 driver")
		}
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			Prefix:   cfg.Prefix,
		})
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("storage: GCS_BUCKET is required for the gcs driver")
		}
		return NewGCSStore(ctx, GCSStoreConfig{Bucket: cfg.GCSBucket, Prefix: cfg.Prefix})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// CleanKey rejects absolute keys and any attempt to climb out of the store
// root.
func CleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if trimmed == "" || strings.HasPrefix(trimmed, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinPrefix(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
