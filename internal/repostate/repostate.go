// Package repostate computes a project fingerprint used to invalidate cached
// projections: a VCS HEAD read when available, otherwise a shallow-walk hash
// of file count, total bytes, and latest mtime.
package repostate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// EmptyHash is the SHA-256 hex digest of the empty string.
const EmptyHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

var excludedDirs = map[string]bool{
	"target": true, "node_modules": true, ".git": true, "dist": true,
	"build": true, ".next": true, "venv": true, "vendor": true, "__pycache__": true,
}

// Fingerprint identifies the state of a project directory for cache keys.
type Fingerprint struct {
	Value string
	Dirty bool
	Kind  string // "git" or "walk"
}

// Compute returns a Fingerprint for root: git HEAD[-dirty] when root is a
// git repository, otherwise a shallow-walk hash.
func Compute(root string) (*Fingerprint, error) {
	if head, dirty, err := gitState(root); err == nil {
		val := head
		if dirty {
			val += "-dirty"
		}
		return &Fingerprint{Value: val, Dirty: dirty, Kind: "git"}, nil
	}
	return walkFingerprint(root)
}

func gitState(root string) (head string, dirty bool, err error) {
	head, err = gitRevParse(root, "HEAD")
	if err != nil {
		return "", false, err
	}
	staged, _ := gitDiff(root, "--cached")
	unstaged, _ := gitDiff(root, "HEAD")
	untracked, _ := gitLsFilesOthers(root)
	dirty = staged != "" || unstaged != "" || untracked != ""
	return head, dirty, nil
}

func gitRevParse(root, ref string) (string, error) {
	cmd := exec.Command("git", "rev-parse", ref)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func gitDiff(root string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"diff"}, args...)...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func gitLsFilesOthers(root string) (string, error) {
	cmd := exec.Command("git", "ls-files", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// IsGitRepository reports whether root is inside a git working tree.
func IsGitRepository(root string) bool {
	_, err := gitRevParse(root, "--show-toplevel")
	return err == nil
}

func walkFingerprint(root string) (*Fingerprint, error) {
	var fileCount int
	var totalBytes int64
	var maxMtime time.Time

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fileCount++
		totalBytes += info.Size()
		if info.ModTime().After(maxMtime) {
			maxMtime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:%d", fileCount, totalBytes, maxMtime.UnixNano())
	return &Fingerprint{Value: hex.EncodeToString(h.Sum(nil)), Kind: "walk"}, nil
}

// GetRepoRoot returns the top-level working-tree directory for path, or
// path itself when not inside a git repository.
func GetRepoRoot(path string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = path
	out, err := cmd.Output()
	if err != nil {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return path
		}
		return abs
	}
	return strings.TrimSpace(string(out))
}
