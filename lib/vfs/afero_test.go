package vfs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// testFileSystems returns the implementations every test runs against
func testFileSystems(t *testing.T) map[string]IFileSystem {
	osFS, err := NewOSFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create OS filesystem: %v", err)
	}
	return map[string]IFileSystem{
		"Mem": NewMemFileSystem(),
		"OS":  osFS,
	}
}

func TestFileSystem(t *testing.T) {
	for name, fs := range testFileSystems(t) {
		t.Run(name, func(t *testing.T) {
			if err := fs.CreateDir("/docs"); err != nil {
				t.Fatalf("Failed to create dir: %v", err)
			}
			if err := fs.CreateDir("/docs"); err == nil {
				t.Errorf("Creating an existing dir should fail")
			}
			if err := fs.CreateDir("/docs/nested"); err != nil {
				t.Fatalf("Failed to create nested dir: %v", err)
			}
			if err := fs.WriteFile("/docs/b.txt", []byte("first")); err != nil {
				t.Fatalf("Failed to write file: %v", err)
			}
			if err := fs.WriteFile("/docs/b.txt", []byte("second")); err != nil {
				t.Fatalf("Failed to overwrite file: %v", err)
			}
			if err := fs.WriteFile("/docs/a.bin", []byte{0, 1, 2}); err != nil {
				t.Fatalf("Failed to write file: %v", err)
			}

			data, err := fs.ReadFile("/docs/b.txt")
			if err != nil || string(data) != "second" {
				t.Errorf("Expected overwritten content, got %q (%v)", data, err)
			}

			dirs, files, err := fs.ListDir("/docs")
			if err != nil {
				t.Fatalf("Failed to list dir: %v", err)
			}
			if !reflect.DeepEqual(dirs, []string{"nested"}) || !reflect.DeepEqual(files, []string{"a.bin", "b.txt"}) {
				t.Errorf("Unexpected listing dirs=%v files=%v", dirs, files)
			}

			if !fs.IsDir("/docs") || fs.IsDir("/docs/b.txt") || !fs.Exists("/docs/b.txt") || fs.Exists("/missing") {
				t.Errorf("Exists/IsDir report wrong results")
			}

			if err := fs.RemovePath("/docs"); err != nil {
				t.Fatalf("Failed to remove dir recursively: %v", err)
			}
			if fs.Exists("/docs") {
				t.Errorf("Directory should be removed")
			}
			if err := fs.RemovePath("/missing"); err != nil {
				t.Errorf("Removing a missing path should not fail, got %v", err)
			}
		})
	}
}

func TestOSFileSystemIsRooted(t *testing.T) {
	root := t.TempDir()
	fs, err := NewOSFileSystem(root)
	if err != nil {
		t.Fatalf("Failed to create OS filesystem: %v", err)
	}

	if err := fs.WriteFile(fs.Join("/", "hello.txt"), []byte("hi")); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if data, err := os.ReadFile(filepath.Join(root, "hello.txt")); err != nil || string(data) != "hi" {
		t.Errorf("Expected file inside root, got %q (%v)", data, err)
	}

	if _, err := NewOSFileSystem(filepath.Join(root, "hello.txt")); err == nil {
		t.Errorf("A file must not be accepted as root")
	}
}

func TestJoin(t *testing.T) {
	fs := NewMemFileSystem()
	tests := []struct {
		elem []string
		want string
	}{
		{[]string{"/", "a"}, "/a"},
		{[]string{"/a", "b/../c"}, "/a/c"},
		{[]string{"/a/b", ".."}, "/a"},
		{[]string{"/", "my folder", "f.txt"}, "/my folder/f.txt"},
	}
	for _, tt := range tests {
		if got := fs.Join(tt.elem...); got != tt.want {
			t.Errorf("Join(%q): expected %s, got %s", tt.elem, tt.want, got)
		}
	}
}
