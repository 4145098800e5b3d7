package storagefs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/groupdrop/groupdrop/internal/app/storagefs"
)

func newSpace(t *testing.T) storagefs.Space {
	t.Helper()
	return storagefs.NewSpace(t.TempDir())
}

func writeFile(t *testing.T, sp storagefs.Space, rel, content string) {
	t.Helper()
	if err := os.WriteFile(sp.Resolve(rel), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, sp storagefs.Space, rel string) string {
	t.Helper()
	b, err := os.ReadFile(sp.Resolve(rel))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRenameFile(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "a.txt", "data")

	if err := sp.RenameFile("a.txt", "b.txt"); err != nil {
		t.Fatalf("RenameFile: %v", err)
	}
	if got := readFile(t, sp, "b.txt"); got != "data" {
		t.Errorf("content after rename: %q", got)
	}
	if _, err := os.Stat(sp.Resolve("a.txt")); !os.IsNotExist(err) {
		t.Error("old name still present")
	}
}

func TestRenameFile_Errors(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "a.txt", "x")
	writeFile(t, sp, "taken.txt", "y")
	if err := sp.Mkdir("dir"); err != nil {
		t.Fatal(err)
	}

	if err := sp.RenameFile("missing.txt", "b.txt"); !errors.Is(err, storagefs.ErrNotFound) {
		t.Errorf("missing source: got %v", err)
	}
	if err := sp.RenameFile("a.txt", "taken.txt"); !errors.Is(err, storagefs.ErrExists) {
		t.Errorf("taken destination: got %v", err)
	}
	if err := sp.RenameFile("dir", "b"); !errors.Is(err, storagefs.ErrIsDir) {
		t.Errorf("directory source: got %v", err)
	}
}

func TestDeleteFile(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "gone.txt", "x")

	if err := sp.DeleteFile("gone.txt"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := os.Stat(sp.Resolve("gone.txt")); !os.IsNotExist(err) {
		t.Error("file still present")
	}
	if err := sp.DeleteFile("gone.txt"); !errors.Is(err, storagefs.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestCopyFile(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "src.txt", "payload")

	if err := sp.CopyFile("src.txt", "dup.txt"); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if got := readFile(t, sp, "dup.txt"); got != "payload" {
		t.Errorf("copy content: %q", got)
	}
	if got := readFile(t, sp, "src.txt"); got != "payload" {
		t.Errorf("source content after copy: %q", got)
	}
}

func TestCopyFile_IntoDirectoryKeepsBaseName(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "src.txt", "payload")
	if err := sp.Mkdir("sub"); err != nil {
		t.Fatal(err)
	}

	if err := sp.CopyFile("src.txt", "sub"); err != nil {
		t.Fatalf("CopyFile into dir: %v", err)
	}
	if got := readFile(t, sp, "sub/src.txt"); got != "payload" {
		t.Errorf("copy content: %q", got)
	}
}

// Copying a file onto itself must fail up front; taking the shared and
// exclusive lock pair on one file would never return.
func TestCopyFile_RejectsSelfCopy(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "a.txt", "payload")

	done := make(chan error, 2)
	go func() { done <- sp.CopyFile("a.txt", "a.txt") }()
	// "/" resolves to the root directory, so the base name joins back
	// onto the source path.
	go func() { done <- sp.CopyFile("a.txt", "/") }()

	for i := 0; i < 2; i++ {
		select {
		case err := <-done:
			if !errors.Is(err, storagefs.ErrBadDestination) {
				t.Errorf("self copy: got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("self copy blocked")
		}
	}
	if got := readFile(t, sp, "a.txt"); got != "payload" {
		t.Errorf("source content after rejected copy: %q", got)
	}
}

func TestMoveFile(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "src.txt", "payload")
	if err := sp.Mkdir("sub"); err != nil {
		t.Fatal(err)
	}

	if err := sp.MoveFile("src.txt", "sub"); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if got := readFile(t, sp, "sub/src.txt"); got != "payload" {
		t.Errorf("moved content: %q", got)
	}
	if _, err := os.Stat(sp.Resolve("src.txt")); !os.IsNotExist(err) {
		t.Error("source still present after move")
	}

	if err := sp.MoveFile("sub/src.txt", "nosuchdir"); !errors.Is(err, storagefs.ErrBadDestination) {
		t.Errorf("missing destination dir: got %v", err)
	}
	writeFile(t, sp, "plain.txt", "x")
	if err := sp.MoveFile("sub/src.txt", "plain.txt"); !errors.Is(err, storagefs.ErrBadDestination) {
		t.Errorf("file destination: got %v", err)
	}
}

// An in-flight upload holds an exclusive lock; fast-fail operations on
// the same file must report it busy rather than block.
func TestUploadLockBlocksFastFailOps(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "hot.txt", "old")

	_, release, err := sp.OpenUpload("hot.txt")
	if err != nil {
		t.Fatalf("OpenUpload: %v", err)
	}
	defer release()

	if err := sp.RenameFile("hot.txt", "renamed.txt"); !errors.Is(err, storagefs.ErrBusy) {
		t.Errorf("rename during upload: got %v", err)
	}
	if err := sp.DeleteFile("hot.txt"); !errors.Is(err, storagefs.ErrBusy) {
		t.Errorf("delete during upload: got %v", err)
	}
	if _, _, _, err := sp.OpenDownload("hot.txt"); !errors.Is(err, storagefs.ErrBusy) {
		t.Errorf("download during upload: got %v", err)
	}
}

func TestOpenUpload_TruncatesAndWrites(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "f.txt", "old longer content")

	f, release, err := sp.OpenUpload("f.txt")
	if err != nil {
		t.Fatalf("OpenUpload: %v", err)
	}
	if _, err := f.Write([]byte("new")); err != nil {
		t.Fatal(err)
	}
	release()

	if got := readFile(t, sp, "f.txt"); got != "new" {
		t.Errorf("content after upload: %q", got)
	}
}

func TestOpenUpload_RejectsDirectory(t *testing.T) {
	sp := newSpace(t)
	if err := sp.Mkdir("d"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := sp.OpenUpload("d"); !errors.Is(err, storagefs.ErrIsDir) {
		t.Errorf("upload to directory: got %v", err)
	}
}

func TestOpenDownload(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "f.txt", "hello")

	f, size, release, err := sp.OpenDownload("f.txt")
	if err != nil {
		t.Fatalf("OpenDownload: %v", err)
	}
	defer release()
	if size != 5 {
		t.Errorf("size: got %d, want 5", size)
	}
	b := make([]byte, size)
	if _, err := f.Read(b); err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello" {
		t.Errorf("content: %q", string(b))
	}
}

func TestOpenDownload_Errors(t *testing.T) {
	sp := newSpace(t)
	if err := sp.Mkdir("d"); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := sp.OpenDownload("missing"); !errors.Is(err, storagefs.ErrNotFound) {
		t.Errorf("missing file: got %v", err)
	}
	if _, _, _, err := sp.OpenDownload("d"); !errors.Is(err, storagefs.ErrIsDir) {
		t.Errorf("directory: got %v", err)
	}
}

// Shared locks stack: two downloads of the same file may run at once.
func TestConcurrentDownloadsShareLock(t *testing.T) {
	sp := newSpace(t)
	writeFile(t, sp, "f.txt", "hello")

	_, _, rel1, err := sp.OpenDownload("f.txt")
	if err != nil {
		t.Fatalf("first download: %v", err)
	}
	defer rel1()
	_, _, rel2, err := sp.OpenDownload("f.txt")
	if err != nil {
		t.Fatalf("second download: %v", err)
	}
	defer rel2()
}

func TestCopyFile_TraversalSourceCollapsesToRoot(t *testing.T) {
	sp := newSpace(t)
	// A traversal path resolves to the space root, which is a
	// directory, so file operations report a type mismatch rather
	// than touching anything outside the space.
	if err := sp.DeleteFile("../secret"); !errors.Is(err, storagefs.ErrIsDir) {
		t.Errorf("delete traversal: got %v", err)
	}
	if got := sp.Resolve("../secret"); got != sp.Root() {
		t.Errorf("Resolve traversal: %q", got)
	}
	if _, err := os.Stat(filepath.Dir(sp.Root())); err != nil {
		t.Fatal(err)
	}
}
