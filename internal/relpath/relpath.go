// Package relpath normalizes the relative, slash-separated paths used for
// template members and archive entries.
package relpath

import (
	"errors"
	"path"
	"strings"
)

var (
	// ErrEmpty is returned for an empty path or one that cleans to ".".
	ErrEmpty = errors.New("empty path")

	// ErrAbsolute is returned for rooted paths, drive-letter paths and paths
	// that use backslash separators.
	ErrAbsolute = errors.New("absolute path")

	// ErrParent is returned when any segment is "..".
	ErrParent = errors.New("parent directory reference")
)

// Normalize returns the canonical form of p: forward slashes, no "." segments,
// no duplicate or trailing separators. It rejects anything that is not a
// plain descendant path, even when cleaning would resolve a ".." segment
// back inside the root.
func Normalize(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", ErrEmpty
	}
	if strings.HasPrefix(p, "/") || strings.ContainsRune(p, '\\') || hasDriveLetter(p) {
		return "", ErrAbsolute
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrParent
		}
	}

	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", ErrEmpty
	}
	return cleaned, nil
}

// Base returns the final segment of a normalized path.
func Base(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// IsSingleSegment reports whether p is a normalized path without separators.
func IsSingleSegment(p string) bool {
	return p != "" && !strings.ContainsRune(p, '/')
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
