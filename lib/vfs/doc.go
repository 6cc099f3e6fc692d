// Package vfs defines the filesystem capabilities used by dFS sessions and
// implements them on top of afero.
//
// A session never touches the OS directly: it works with absolute paths of an
// IFileSystem. NewOSFileSystem maps such paths into a root directory of the host
// (so "/" is the root directory and ".." can not leave it), NewMemFileSystem keeps
// everything in memory and is mainly used by tests.
package vfs
