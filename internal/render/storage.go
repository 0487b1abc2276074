// Package render holds the collaborators of a rewrite run: the storage that
// receives diagram sources and rendered images, and the renderer turning one
// into the other.
package render

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Storage persists diagram sources and exposes the images rendered next to them.
// Names are slash-separated and relative to the storage root.
type Storage interface {
	fs.FS
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// WriteSource stores the source of a diagram.
func WriteSource(storage Storage, name string, source []byte) error {
	return storage.WriteFile(name, source, fileMode)
}

// Exists reports whether name is a regular file of storage.
func Exists(storage Storage, name string) (bool, error) {
	info, err := fs.Stat(storage, name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// Dir is a Storage rooted at a directory of the local file system.
type Dir struct {
	fs.FS
	root string
}

// NewDir returns the storage for root. The directory is created on first write.
func NewDir(root string) *Dir {
	return &Dir{FS: os.DirFS(root), root: root}
}

// Root returns the directory backing the storage.
func (d *Dir) Root() string {
	return d.root
}

// WriteFile writes data to the named file, replacing any previous content.
func (d *Dir) WriteFile(name string, data []byte, perm fs.FileMode) error {
	path := filepath.Join(d.root, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return err
	}

	return os.WriteFile(path, data, perm)
}
