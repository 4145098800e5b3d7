// internal/app/system/validators/validators.go

// Package validators checks protocol argument tokens before they reach
// the stores or the filesystem.
package validators

import "github.com/groupdrop/groupdrop/internal/app/system/limits"

// ValidName accepts usernames, passwords and group names: 1 to
// MaxNameLen printable ASCII characters with no whitespace and no path
// separators. Names end up in flat files and storage folder names, so
// the character set is deliberately narrow.
func ValidName(s string) bool {
	if len(s) == 0 || len(s) > limits.MaxNameLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c > '~' || c == '/' || c == '\\' {
			return false
		}
	}
	return true
}

// ValidPath accepts user-supplied storage paths: printable ASCII
// without whitespace (arguments are whitespace-delimited on the wire).
// Traversal sequences are not rejected here; path resolution collapses
// them to the group root.
func ValidPath(s string) bool {
	if len(s) == 0 || len(s) > 256 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}
