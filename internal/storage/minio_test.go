package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

type fakeBucket struct {
	exists  bool
	objects map[string]string
	listErr error
	fetched []string
}

func (f *fakeBucket) BucketExists(context.Context, string) (bool, error) { return f.exists, nil }

func (f *fakeBucket) ListObjects(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(f.objects)+1)
	for key := range f.objects {
		if strings.HasPrefix(key, opts.Prefix) {
			ch <- minio.ObjectInfo{Key: key}
		}
	}
	if f.listErr != nil {
		ch <- minio.ObjectInfo{Err: f.listErr}
	}
	close(ch)
	return ch
}

func (f *fakeBucket) FGetObject(_ context.Context, _, object, filePath string, _ minio.GetObjectOptions) error {
	f.fetched = append(f.fetched, object)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(f.objects[object]), 0o644)
}

func TestMinIOSourceStagesPrefix(t *testing.T) {
	fake := &fakeBucket{exists: true, objects: map[string]string{
		"2024/net/Jon Smith/quiz.xlsx": "jon",
		"2024/net/b.xlsx":              "b",
		"2024/net/empty/":              "",
		"2024/net/../../etc/passwd":    "nope",
		"2024/os/c.xlsx":               "c",
	}}
	s := &MinIOSource{client: fake, bucket: "quizzes"}

	local, cleanup, err := s.Stage(context.Background(), "/2024/net/")
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(local, "Jon Smith", "quiz.xlsx"))
	if err != nil || string(b) != "jon" {
		t.Fatalf("nested object: %q %v", b, err)
	}
	if _, err := os.Stat(filepath.Join(local, "b.xlsx")); err != nil {
		t.Fatal(err)
	}
	if len(fake.fetched) != 2 {
		t.Fatalf("fetched %v", fake.fetched)
	}
	entries, err := List(local, true)
	if err != nil || len(entries) != 2 {
		t.Fatalf("staged listing: %+v %v", entries, err)
	}

	cleanup()
	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Fatalf("temp dir survived cleanup: %v", err)
	}
}

func TestMinIOSourceFailures(t *testing.T) {
	ctx := context.Background()
	missing := &MinIOSource{client: &fakeBucket{}, bucket: "quizzes"}
	if _, _, err := missing.Stage(ctx, "2024"); err == nil {
		t.Fatal("missing bucket accepted")
	}

	broken := &MinIOSource{client: &fakeBucket{exists: true, listErr: errors.New("connection reset")}, bucket: "quizzes"}
	if _, _, err := broken.Stage(ctx, "2024"); err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("list error: %v", err)
	}
}
