package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAnalyzeBuildsGraphFromGoSource(t *testing.T) {
	dir := t.TempDir()
	src := "package widget\n\nfunc DoThing() {\n\tif true {\n\t\tprintln(\"x\")\n\t}\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "widget.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	e := NewEngine()
	g, err := e.Analyze(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Metrics.TotalCapsules == 0 {
		t.Fatal("expected at least one capsule from the parsed file")
	}
}
