// internal/app/storagefs/folderops.go
package storagefs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Folder operations mirror the file operations but act recursively.
// Advisory locks are per regular file: directory entries cannot carry a
// flock, so folder rename/move rely on rename(2) atomicity and folder
// copy locks each contained file as it is copied.

// Mkdir creates one directory level inside the space.
func (s Space) Mkdir(path string) error {
	phys := s.Resolve(path)
	if _, err := os.Stat(phys); err == nil {
		return ErrExists
	}
	if err := os.Mkdir(phys, 0o755); err != nil {
		return ErrNotFound
	}
	return nil
}

// ListContent returns the entries of a directory, sorted, with "/"
// appended to subdirectory names.
func (s Space) ListContent(path string) ([]string, error) {
	phys := s.Resolve(path)
	entries, err := os.ReadDir(phys)
	if err != nil {
		return nil, ErrNotFound
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// RenameDir renames a directory in place, like RenameFile but for
// folders.
func (s Space) RenameDir(oldPath, newName string) error {
	oldPhys := s.Resolve(oldPath)
	fi, err := os.Stat(oldPhys)
	if err != nil {
		return ErrNotFound
	}
	if !fi.IsDir() {
		return ErrIsFile
	}
	newPhys := filepath.Join(filepath.Dir(oldPhys), newName)
	if _, err := os.Stat(newPhys); err == nil {
		return ErrExists
	}
	if err := os.Rename(oldPhys, newPhys); err != nil {
		return ErrNotFound
	}
	return nil
}

// RemoveDir deletes a directory tree.
func (s Space) RemoveDir(path string) error {
	phys := s.Resolve(path)
	fi, err := os.Stat(phys)
	if err != nil {
		return ErrNotFound
	}
	if !fi.IsDir() {
		return ErrIsFile
	}
	if phys == s.root {
		// Never delete the group root out from under active members.
		return ErrBadDestination
	}
	if err := os.RemoveAll(phys); err != nil {
		return ErrNotFound
	}
	return nil
}

// CopyDir recursively copies the src tree to dst. Each regular file is
// copied under the same lock pair as a single-file copy.
func (s Space) CopyDir(src, dst string) error {
	srcPhys := s.Resolve(src)
	fi, err := os.Stat(srcPhys)
	if err != nil {
		return ErrNotFound
	}
	if !fi.IsDir() {
		return ErrIsFile
	}
	dstPhys := s.Resolve(dst)
	if fi, err := os.Stat(dstPhys); err == nil && fi.IsDir() {
		dstPhys = filepath.Join(dstPhys, filepath.Base(srcPhys))
	}
	if insideOrEqual(dstPhys, srcPhys) {
		// A destination inside the source would make the recursion
		// re-discover its own output.
		return ErrBadDestination
	}
	return copyTree(srcPhys, dstPhys)
}

// insideOrEqual reports whether path is root itself or below it.
func insideOrEqual(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

func copyTree(srcPhys, dstPhys string) error {
	if err := os.MkdirAll(dstPhys, 0o755); err != nil {
		return ErrBadDestination
	}
	entries, err := os.ReadDir(srcPhys)
	if err != nil {
		return ErrNotFound
	}
	for _, e := range entries {
		from := filepath.Join(srcPhys, e.Name())
		to := filepath.Join(dstPhys, e.Name())
		if e.IsDir() {
			if err := copyTree(from, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFileLocked(from, to); err != nil {
			return err
		}
	}
	return nil
}

// MoveDir relocates the src tree into destDir, keeping its base name.
func (s Space) MoveDir(src, destDir string) error {
	destPhys := s.Resolve(destDir)
	fi, err := os.Stat(destPhys)
	if err != nil || !fi.IsDir() {
		return ErrBadDestination
	}
	srcPhys := s.Resolve(src)
	sfi, err := os.Stat(srcPhys)
	if err != nil {
		return ErrNotFound
	}
	if !sfi.IsDir() {
		return ErrIsFile
	}
	if srcPhys == s.root {
		return ErrBadDestination
	}
	if insideOrEqual(destPhys, srcPhys) {
		// A directory cannot move into its own subtree.
		return ErrBadDestination
	}
	if err := os.Rename(srcPhys, filepath.Join(destPhys, filepath.Base(srcPhys))); err != nil {
		return ErrNotFound
	}
	return nil
}
