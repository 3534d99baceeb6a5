// Package blob stores uploaded dataset files and report exports.
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"agri/pkg/apperr"
)

// Store keeps opaque objects under slash-separated keys.
type Store interface {
	// Put writes body under key and returns the URL clients fetch it from.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Delete removes the object; a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a driver.
type Config struct {
	Driver    string // "local" or "s3"
	LocalPath string
	BaseURL   string
	S3Bucket  string
	AWSRegion string
}

func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalPath, cfg.BaseURL)
	case "s3":
		return NewS3(ctx, cfg.S3Bucket, cfg.AWSRegion)
	}
	return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	k := path.Clean(strings.TrimLeft(key, "/"))
	if k == "." || k == ".." || strings.HasPrefix(k, "../") || strings.TrimSpace(key) == "" {
		return "", apperr.Invalid("key", "invalid object key")
	}
	return k, nil
}
