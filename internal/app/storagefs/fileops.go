// internal/app/storagefs/fileops.go
package storagefs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockFor returns the advisory lock handle for a physical path. The
// lock is taken on the target path itself, so every lock-aware
// operation in or out of this process contends on the same file.
func lockFor(path string) *flock.Flock {
	return flock.New(path)
}

// RenameFile renames a file in place: newName replaces the base name of
// oldPath inside the same parent directory. The operation fails fast
// with ErrBusy if the file is being transferred.
func (s Space) RenameFile(oldPath, newName string) error {
	oldPhys := s.Resolve(oldPath)
	fi, err := os.Stat(oldPhys)
	if err != nil {
		return ErrNotFound
	}
	if fi.IsDir() {
		return ErrIsDir
	}
	newPhys := filepath.Join(filepath.Dir(oldPhys), newName)
	if _, err := os.Stat(newPhys); err == nil {
		return ErrExists
	}

	lk := lockFor(oldPhys)
	locked, err := lk.TryLock()
	if err != nil || !locked {
		return ErrBusy
	}
	defer lk.Unlock()

	if err := os.Rename(oldPhys, newPhys); err != nil {
		return ErrNotFound
	}
	return nil
}

// DeleteFile removes a file, failing fast with ErrBusy under an active
// transfer.
func (s Space) DeleteFile(path string) error {
	phys := s.Resolve(path)
	fi, err := os.Stat(phys)
	if err != nil {
		return ErrNotFound
	}
	if fi.IsDir() {
		return ErrIsDir
	}

	lk := lockFor(phys)
	locked, err := lk.TryLock()
	if err != nil || !locked {
		return ErrBusy
	}
	defer lk.Unlock()

	if err := os.Remove(phys); err != nil {
		return ErrNotFound
	}
	return nil
}

// CopyFile duplicates src to dst inside the space. It blocks for a
// shared lock on the source and an exclusive lock on the destination;
// copies are allowed to wait out an in-flight transfer.
func (s Space) CopyFile(src, dst string) error {
	srcPhys := s.Resolve(src)
	fi, err := os.Stat(srcPhys)
	if err != nil {
		return ErrNotFound
	}
	if fi.IsDir() {
		return ErrIsDir
	}
	dstPhys := s.Resolve(dst)
	if fi, err := os.Stat(dstPhys); err == nil && fi.IsDir() {
		dstPhys = filepath.Join(dstPhys, filepath.Base(srcPhys))
	}
	if dstPhys == srcPhys {
		// A file cannot be copied onto itself: the shared source lock
		// and exclusive destination lock would contend on one file.
		return ErrBadDestination
	}
	return copyFileLocked(srcPhys, dstPhys)
}

func copyFileLocked(srcPhys, dstPhys string) error {
	srcLock := lockFor(srcPhys)
	if err := srcLock.RLock(); err != nil {
		return ErrNotFound
	}
	defer srcLock.Unlock()

	in, err := os.Open(srcPhys)
	if err != nil {
		return ErrNotFound
	}
	defer in.Close()

	dstLock := lockFor(dstPhys)
	if err := dstLock.Lock(); err != nil {
		return ErrBadDestination
	}
	defer dstLock.Unlock()

	out, err := os.OpenFile(dstPhys, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return ErrBadDestination
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return ErrWrite
	}
	return out.Close()
}

// MoveFile relocates src into destDir, keeping its base name. The
// destination must be an existing directory in the space.
func (s Space) MoveFile(src, destDir string) error {
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
	if sfi.IsDir() {
		return ErrIsDir
	}

	lk := lockFor(srcPhys)
	locked, err := lk.TryLock()
	if err != nil || !locked {
		return ErrBusy
	}
	defer lk.Unlock()

	if err := os.Rename(srcPhys, filepath.Join(destPhys, filepath.Base(srcPhys))); err != nil {
		return ErrNotFound
	}
	return nil
}

// OpenUpload resolves path, opens it for writing and takes a blocking
// exclusive lock. The returned release func unlocks and closes.
func (s Space) OpenUpload(path string) (*os.File, func(), error) {
	phys := s.Resolve(path)
	if fi, err := os.Stat(phys); err == nil && fi.IsDir() {
		return nil, nil, ErrIsDir
	}
	lk := lockFor(phys)
	if err := lk.Lock(); err != nil {
		return nil, nil, ErrWrite
	}
	f, err := os.OpenFile(phys, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		lk.Unlock()
		return nil, nil, ErrWrite
	}
	release := func() {
		f.Close()
		lk.Unlock()
	}
	return f, release, nil
}

// OpenDownload resolves path and probes for a shared lock without
// blocking; ErrBusy means the file is mid-upload. On success the file
// is open for reading with its size reported, and release drops the
// lock held while streaming.
func (s Space) OpenDownload(path string) (*os.File, int64, func(), error) {
	phys := s.Resolve(path)
	fi, err := os.Stat(phys)
	if err != nil {
		return nil, 0, nil, ErrNotFound
	}
	if fi.IsDir() {
		return nil, 0, nil, ErrIsDir
	}
	lk := lockFor(phys)
	locked, err := lk.TryRLock()
	if err != nil || !locked {
		return nil, 0, nil, ErrBusy
	}
	f, err := os.Open(phys)
	if err != nil {
		lk.Unlock()
		return nil, 0, nil, ErrNotFound
	}
	release := func() {
		f.Close()
		lk.Unlock()
	}
	return f, fi.Size(), release, nil
}
