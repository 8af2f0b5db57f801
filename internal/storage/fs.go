package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FSSource serves import folders from a local base directory.
type FSSource struct{ base string }

func NewFSSource(base string) (*FSSource, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSSource{base: base}, nil
}

// Stage resolves dir below the base. Absolute dirs and dirs that climb out of
// the base are rejected.
func (s *FSSource) Stage(_ context.Context, dir string) (string, func(), error) {
	if dir == "" {
		return "", nop, errors.New("empty import dir")
	}
	clean := filepath.Clean(filepath.FromSlash(dir))
	if filepath.IsAbs(clean) || escapes(clean) {
		return "", nop, fmt.Errorf("import dir %q escapes the base directory", dir)
	}
	return stageDir(filepath.Join(s.base, clean))
}

// LocalSource reads folders straight from the local filesystem, relative to
// the working directory. Only the CLI uses it; the daemon stays on FSSource.
type LocalSource struct{}

func (LocalSource) Stage(_ context.Context, dir string) (string, func(), error) {
	if dir == "" {
		return "", nop, errors.New("empty import dir")
	}
	return stageDir(filepath.Clean(dir))
}

func stageDir(p string) (string, func(), error) {
	fi, err := os.Stat(p)
	if err != nil {
		return "", nop, err
	}
	if !fi.IsDir() {
		return "", nop, fmt.Errorf("%s is not a directory", p)
	}
	return p, nop, nil
}

func escapes(clean string) bool {
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func nop() {}

// Put stores an uploaded file at key below the base and returns the clean key.
func (s *FSSource) Put(key string, r io.Reader) (string, error) {
	if key == "" {
		return "", errors.New("empty key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || escapes(clean) {
		return "", fmt.Errorf("key %q escapes the base directory", key)
	}
	dst := filepath.Join(s.base, clean)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return filepath.ToSlash(clean), nil
}
