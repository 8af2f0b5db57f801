package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// objectStore is the part of *minio.Client a MinIOSource uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	FGetObject(ctx context.Context, bucket, object, filePath string, opts minio.GetObjectOptions) error
}

// MinIOSource downloads an object prefix into a temporary directory per import.
type MinIOSource struct {
	client objectStore
	bucket string
}

func NewMinIOSource(cfg MinIOConfig) (*MinIOSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinIOSource{client: client, bucket: cfg.Bucket}, nil
}

// Stage copies every object below prefix dir, keeping the key layout so that
// per-author folders survive.
func (s *MinIOSource) Stage(ctx context.Context, dir string) (string, func(), error) {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", nop, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !ok {
		return "", nop, fmt.Errorf("bucket %q does not exist", s.bucket)
	}

	tmp, err := os.MkdirTemp("", "quizimport-*")
	if err != nil {
		return "", nop, err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmp); err != nil {
			log.Printf("storage: remove %s: %v", tmp, err)
		}
	}

	prefix := strings.Trim(dir, "/")
	if prefix != "" {
		prefix += "/"
	}
	n := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			cleanup()
			return "", nop, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		rel := strings.TrimPrefix(obj.Key, prefix)
		if rel == "" || strings.HasSuffix(rel, "/") {
			continue
		}
		clean := filepath.FromSlash(path.Clean(rel))
		if escapes(clean) {
			log.Printf("storage: skip %s: key climbs out of the prefix", obj.Key)
			continue
		}
		dst := filepath.Join(tmp, clean)
		if err := s.client.FGetObject(ctx, s.bucket, obj.Key, dst, minio.GetObjectOptions{}); err != nil {
			cleanup()
			return "", nop, fmt.Errorf("failed to download %s: %w", obj.Key, err)
		}
		n++
	}
	log.Printf("storage: staged %d objects from %s/%s", n, s.bucket, prefix)
	return tmp, cleanup, nil
}
