package storagefs_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/groupdrop/groupdrop/internal/app/storagefs"
)

func TestSpace_Resolve(t *testing.T) {
	root := filepath.Join("storage", "teamA")
	sp := storagefs.NewSpace(root)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", root},
		{"slash", "/", root},
		{"plain", "docs/report.txt", filepath.Join(root, "docs", "report.txt")},
		{"leading slash stripped", "/docs", filepath.Join(root, "docs")},
		{"trailing slash trimmed", "docs/", filepath.Join(root, "docs")},
		// Traversal collapses to the group root, per protocol history.
		{"dotdot", "../../etc/passwd", root},
		{"dotdot absolute", "/../x", root},
		{"dotdot embedded", "a/../../b", root},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sp.Resolve(tt.in); got != tt.want {
				t.Errorf("Resolve(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// No resolved path may ever escape the space root.
func TestSpace_ResolveNeverEscapes(t *testing.T) {
	root, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sp := storagefs.NewSpace(root)
	for _, in := range []string{"..", "../..", "x/../../..", "/..", "....//..", "a/b/../../../c"} {
		got := sp.Resolve(in)
		if got != root && !strings.HasPrefix(got, root+string(filepath.Separator)) {
			t.Errorf("Resolve(%q) escaped the root: %q", in, got)
		}
	}
}
