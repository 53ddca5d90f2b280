package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"econfetch/internal/model"
	"econfetch/internal/registry"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates the remote cache bucket.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store serves cache entries from an S3-compatible bucket.
type S3Store struct {
	client  *minio.Client
	bucket  string
	entries map[string]registry.CacheEntry
}

// NewS3Store connects to the bucket described by cfg.
func NewS3Store(cfg S3Config, entries map[string]registry.CacheEntry) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect s3 cache: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, entries: entries}, nil
}

// Load fetches the named object and decodes it in its declared format.
func (s *S3Store) Load(ctx context.Context, name string) (model.Table, error) {
	entry, ok := s.entries[name]
	if !ok {
		return model.Table{}, &MissError{Name: name}
	}

	obj, err := s.client.GetObject(ctx, s.bucket, entry.Object, minio.GetObjectOptions{})
	if err != nil {
		return model.Table{}, &MissError{Name: name, Err: err}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return model.Table{}, &MissError{Name: name, Err: err}
	}

	switch entry.Format {
	case registry.FormatCSV:
		tbl, err := DecodeCSV(bytes.NewReader(data))
		if err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		return tbl, nil
	case registry.FormatParquet:
		// The parquet reader wants a seekable file.
		tmp, err := os.CreateTemp("", "econfetch-cache-*.parquet")
		if err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		if err := tmp.Close(); err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		tbl, err := ReadParquet(tmp.Name())
		if err != nil {
			return model.Table{}, &MissError{Name: name, Err: err}
		}
		return tbl, nil
	default:
		return model.Table{}, &MissError{Name: name, Err: fmt.Errorf("unknown format %q", entry.Format)}
	}
}

// Upload publishes a cache artifact into the bucket. Used by cachegen,
// never by the orchestrator.
func (s *S3Store) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	entry, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("upload: unknown cache entry %q", name)
	}
	_, err := s.client.PutObject(ctx, s.bucket, entry.Object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", entry.Object, err)
	}
	return nil
}
