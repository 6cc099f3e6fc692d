package vfs

import (
	"fmt"
	"github.com/spf13/afero"
	"os"
	"path"
	"path/filepath"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

type aferoFileSystem struct {
	fs afero.Fs
}

// NewFileSystem wraps any afero filesystem
func NewFileSystem(fs afero.Fs) IFileSystem {
	return &aferoFileSystem{fs: fs}
}

// NewOSFileSystem exposes the directory root of the OS filesystem as "/".
// Paths can not escape root.
func NewOSFileSystem(root string) (IFileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", abs)
	}
	return NewFileSystem(afero.NewBasePathFs(afero.NewOsFs(), abs)), nil
}

// NewMemFileSystem creates an empty in-memory filesystem
func NewMemFileSystem() IFileSystem {
	return NewFileSystem(afero.NewMemMapFs())
}

// --------------------------------------------------------------------------
// Interface Methods (docu see vfs/interface.go)
// --------------------------------------------------------------------------

func (a *aferoFileSystem) CreateDir(path string) error {
	return a.fs.Mkdir(path, dirPerm)
}

func (a *aferoFileSystem) RemovePath(path string) error {
	// RemoveAll handles files, directories and missing paths alike
	return a.fs.RemoveAll(path)
}

func (a *aferoFileSystem) ListDir(path string) ([]string, []string, error) {
	// afero.ReadDir returns the entries sorted by name
	entries, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, nil, err
	}

	dirs := make([]string, 0, len(entries))
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	return dirs, files, nil
}

func (a *aferoFileSystem) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

func (a *aferoFileSystem) WriteFile(path string, data []byte) error {
	return afero.WriteFile(a.fs, path, data, filePerm)
}

// Join works on the virtual paths of the filesystem, they are always slash separated
func (a *aferoFileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (a *aferoFileSystem) Exists(path string) bool {
	ok, err := afero.Exists(a.fs, path)
	return ok && err == nil
}

func (a *aferoFileSystem) IsDir(path string) bool {
	ok, err := afero.IsDir(a.fs, path)
	return ok && err == nil
}
