// Package scan implements the File Scanner: walking a project root and
// yielding language-tagged file records in deterministic order.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"archlens/internal/archerrors"
	"archlens/internal/paths"
)

// FileInfo is one discovered source file.
type FileInfo struct {
	AbsolutePath     string
	SizeBytes        int64
	DetectedLanguage string
}

var defaultExcludeDirs = map[string]bool{
	"target": true, "node_modules": true, ".git": true, "dist": true,
	"build": true, ".next": true, "venv": true,
}

var extLanguage = map[string]string{
	".go":    "go",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".mts":   "typescript",
	".cts":   "typescript",
	".tsx":   "tsx",
	".py":    "python",
	".pyw":   "python",
	".rs":    "rust",
	".java":  "java",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".rb":    "ruby",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".dart":  "dart",
}

// Options configures a scan.
type Options struct {
	IncludeExt  []string // empty means "use extLanguage's keys"
	ExcludeDirs map[string]bool
	MaxParallel int
}

// DefaultOptions returns the scanner's documented defaults.
func DefaultOptions() Options {
	return Options{MaxParallel: 8}
}

// Scan walks root and returns every matched file, sorted lexicographically
// by absolute path for deterministic downstream processing.
func Scan(ctx context.Context, root string, opts Options) ([]FileInfo, error) {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 8
	}
	exclude := opts.ExcludeDirs
	if exclude == nil {
		exclude = defaultExcludeDirs
	}

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, archerrors.Wrap(archerrors.KindIoFailure, "cannot read scan root", err)
	}

	results := make(chan FileInfo, 256)
	var wg sync.WaitGroup
	visited := sync.Map{}
	sem := make(chan struct{}, opts.MaxParallel)

	var walk func(dir string)
	walk = func(dir string) {
		defer wg.Done()
		sem <- struct{}{}
		entries, err := os.ReadDir(dir)
		<-sem
		if err != nil {
			return
		}
		for _, e := range entries {
			select {
			case <-ctx.Done():
				return
			default:
			}
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if exclude[e.Name()] {
					continue
				}
				real, statErr := os.Stat(full)
				if statErr != nil {
					continue
				}
				key := real.ModTime().String() + full
				if _, loaded := visited.LoadOrStore(key, true); loaded {
					continue
				}
				wg.Add(1)
				go walk(full)
				continue
			}
			lang, ok := languageFor(e.Name(), opts.IncludeExt)
			if !ok {
				continue
			}
			fi, err := e.Info()
			if err != nil {
				continue
			}
			results <- FileInfo{
				AbsolutePath:     paths.Normalize(full),
				SizeBytes:        fi.Size(),
				DetectedLanguage: lang,
			}
		}
	}

	wg.Add(1)
	go walk(root)

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []FileInfo
	for fi := range results {
		out = append(out, fi)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].AbsolutePath < out[j].AbsolutePath })
	return out, nil
}

func languageFor(name string, includeExt []string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if len(includeExt) > 0 {
		allowed := false
		for _, e := range includeExt {
			if e == ext {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", false
		}
	}
	lang, ok := extLanguage[ext]
	return lang, ok
}
