package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps each collection in a JSON file under a data
// directory, one array of records per file.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir. The directory is
// created lazily on first save.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) Collection(name string) Collection {
	return &FileCollection{path: filepath.Join(b.dir, name+".json")}
}

func (b *FileBackend) Close() error { return nil }

// FileCollection is a Collection backed by a single JSON file.
type FileCollection struct {
	path string
}

// NewFileCollection returns a collection stored at path.
func NewFileCollection(path string) *FileCollection {
	return &FileCollection{path: path}
}

// Load decodes the file into v. A missing or empty file loads as an
// empty collection.
func (c *FileCollection) Load(_ context.Context, v any) error {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("load %s: %w", c.path, err)
	}
	return nil
}

// Save writes v to the file atomically (temp file + rename), creating
// the parent directory if needed.
func (c *FileCollection) Save(_ context.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("save %s: %w", c.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", c.path, err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", c.path, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("save %s: %w", c.path, err)
	}
	return nil
}
