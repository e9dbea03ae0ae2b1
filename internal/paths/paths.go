// Package paths provides repo-relative path normalization helpers; the
// scanner uses Normalize for every FileInfo path.
package paths

import (
	"path/filepath"
	"strings"
)

// Normalize converts path separators to forward slashes, as used in every
// capsule location and import classification regardless of host OS.
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// Canonicalize resolves symlinks where possible and returns path relative
// to root, forward-slash normalized. If path cannot be made relative to
// root, the normalized absolute path is returned unchanged.
func Canonicalize(root, path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return Normalize(resolved)
	}
	return Normalize(rel)
}

// IsWithin reports whether path lies within root.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Join joins a repo root with a relative path, yielding a normalized result.
func Join(root, rel string) string {
	return Normalize(filepath.Join(root, rel))
}

// FirstSegment returns the first path segment of a forward-slash path, or
// "" for an empty or root-only path.
func FirstSegment(path string) string {
	path = strings.TrimPrefix(Normalize(path), "/")
	idx := strings.IndexByte(path, '/')
	if idx < 0 {
		return path
	}
	return path[:idx]
}
