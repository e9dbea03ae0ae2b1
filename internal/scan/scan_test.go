package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestScanDeterministicOrderAndExclusions(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "b.go"), "package b")
	mustWrite(t, filepath.Join(dir, "a.go"), "package a")
	mustMkdir(t, filepath.Join(dir, "node_modules"))
	mustWrite(t, filepath.Join(dir, "node_modules", "ignored.js"), "ignored")
	mustWrite(t, filepath.Join(dir, "readme.md"), "not source")

	files, err := Scan(context.Background(), dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}
	if files[0].AbsolutePath > files[1].AbsolutePath {
		t.Fatalf("expected lexicographic order, got %+v", files)
	}
	for _, f := range files {
		if f.DetectedLanguage != "go" {
			t.Errorf("expected go language, got %q for %q", f.DetectedLanguage, f.AbsolutePath)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), "/no/such/path", DefaultOptions())
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
}
