// internal/app/storagefs/paths.go

// Package storagefs performs the filesystem side of the protocol: every
// operation works on paths resolved inside one group's storage folder
// and file content is guarded by advisory file locks (shared for reads,
// exclusive for writes). The in-memory table locks protect who owns
// what; these locks protect the bytes.
package storagefs

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound: the source or target path does not exist.
	ErrNotFound = errors.New("storagefs: not found")
	// ErrExists: the destination name is already taken.
	ErrExists = errors.New("storagefs: name exists")
	// ErrBusy: an exclusive lock could not be acquired immediately.
	ErrBusy = errors.New("storagefs: resource locked")
	// ErrBadDestination: the destination is not a usable directory.
	ErrBadDestination = errors.New("storagefs: invalid destination")
	// ErrIsDir: a directory where a file was expected.
	ErrIsDir = errors.New("storagefs: is a directory")
	// ErrIsFile: a file where a directory was expected.
	ErrIsFile = errors.New("storagefs: is a file")
	// ErrWrite: content could not be fully written.
	ErrWrite = errors.New("storagefs: write failed")
)

// Space is one group's sandboxed storage area.
type Space struct {
	root string
}

// NewSpace returns a space rooted at the group's storage folder.
func NewSpace(root string) Space {
	return Space{root: root}
}

// Root returns the physical root of the space.
func (s Space) Root() string { return s.root }

// Resolve maps a user-supplied path to a physical path inside the
// space. An empty path, "/", or any path containing ".." resolves to
// the space root; a leading slash is stripped. Collapsing ".." to the
// root instead of rejecting the command is historical protocol behavior
// and is pinned by tests; clients get their own root back, never a path
// above it.
func (s Space) Resolve(userPath string) string {
	clean := userPath
	switch {
	case clean == "" || clean == "/":
		clean = ""
	case strings.Contains(clean, ".."):
		clean = ""
	default:
		clean = strings.TrimPrefix(clean, "/")
	}
	clean = strings.TrimSuffix(clean, "/")
	if clean == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(clean))
}
