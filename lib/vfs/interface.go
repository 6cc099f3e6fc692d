package vfs

// IFileSystem is the set of filesystem primitives a session needs.
// All paths are absolute paths inside the filesystem; implementations decide
// how they map onto real storage.
type IFileSystem interface {
	// CreateDir creates a single directory. It fails if the directory already exists
	// or its parent does not exist.
	CreateDir(path string) error
	// RemovePath removes a file, or a directory with all of its contents.
	// Removing a path that does not exist is not an error.
	RemovePath(path string) error
	// ListDir returns the names of the directories and files directly inside path,
	// each sorted by name.
	ListDir(path string) (dirs []string, files []string, err error)
	// ReadFile returns the full content of a file.
	ReadFile(path string) ([]byte, error)
	// WriteFile creates or overwrites a file with data.
	WriteFile(path string, data []byte) error
	// Join joins path elements into a single slash separated, cleaned path.
	Join(elem ...string) string
	// Exists reports whether path exists.
	Exists(path string) bool
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool
}
