package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Source makes the files of one import available on the local filesystem.
// The returned cleanup removes anything Stage created; it is never nil.
type Source interface {
	Stage(ctx context.Context, dir string) (local string, cleanup func(), err error)
}

// Entry is one file found under an import root.
type Entry struct {
	Path   string // absolute or root-joined path, for opening
	Rel    string // slash-separated path below the root, stable across stagings
	Folder string // first-level folder below the root; empty for flat imports
}

// List returns the files under root sorted by Rel. Hidden files and office
// lock files ("~$...") are ignored. With recursive=false only root itself is
// read.
func List(root string, recursive bool) ([]Entry, error) {
	var out []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		e := Entry{Path: path, Rel: filepath.ToSlash(rel)}
		if i := strings.IndexByte(e.Rel, '/'); i > 0 {
			e.Folder = e.Rel[:i]
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, nil
}

// Open picks the Source named by driver ("fs" or "minio").
func Open(driver, basePath string, mc MinIOConfig) (Source, error) {
	switch driver {
	case "", "fs":
		return NewFSSource(basePath)
	case "minio":
		return NewMinIOSource(mc)
	default:
		return nil, fmt.Errorf("unknown source driver %q", driver)
	}
}
