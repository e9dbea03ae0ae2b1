package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"archlens/internal/archerrors"
	"archlens/internal/cachestore"
	"archlens/internal/jobs"
	"archlens/internal/logging"
)

func writeSampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src := "package widget\n\nfunc DoThing() {\n\tif true {\n\t\tprintln(\"x\")\n\t}\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "widget.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return dir
}

func TestAnalyzeProjectReturnsJSONSummary(t *testing.T) {
	r := NewRegistry(Options{})
	dir := writeSampleProject(t)

	result, err := r.Call(context.Background(), "analyze.project", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map result, got %T", result)
	}
	if m["status"] != "ok" {
		t.Fatalf("expected status ok on first run, got %v", m["status"])
	}
	if m["json"] == "" {
		t.Fatal("expected non-empty json output")
	}
}

func TestUnknownToolReturnsNotFound(t *testing.T) {
	r := NewRegistry(Options{})
	_, err := r.Call(context.Background(), "no.such.tool", nil)
	if err == nil {
		t.Fatal("expected an error for an unknown tool")
	}
	if ae, ok := archerrors.As(err); !ok || ae.Kind != archerrors.KindNotFound {
		t.Fatalf("expected a KindNotFound archerror, got %v", err)
	}
}

func TestProjectionWithoutCallerETagAlwaysReturnsBody(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := cachestore.NewStore(cacheDir, cachestore.Options{})
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	r := NewRegistry(Options{Cache: cache})
	dir := writeSampleProject(t)

	first, err := r.Call(context.Background(), "export.ai_summary_json", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Call(context.Background(), "export.ai_summary_json", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstMap := first.(map[string]interface{})
	secondMap := second.(map[string]interface{})
	if firstMap["status"] != "ok" || secondMap["status"] != "ok" {
		t.Fatalf("expected both calls ok without a caller etag, got %v / %v", firstMap["status"], secondMap["status"])
	}
	if firstMap["json"] == "" || secondMap["json"] == "" {
		t.Fatal("expected a body on every call that supplies no caller etag")
	}
	if firstMap["etag"] != secondMap["etag"] {
		t.Fatalf("expected stable etag across calls, got %v vs %v", firstMap["etag"], secondMap["etag"])
	}
}

func TestProjectionWithMatchingCallerETagReturnsNotModifiedWithNoBody(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := cachestore.NewStore(cacheDir, cachestore.Options{})
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	r := NewRegistry(Options{Cache: cache})
	dir := writeSampleProject(t)

	first, err := r.Call(context.Background(), "export.ai_summary_json", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstMap := first.(map[string]interface{})
	etag := firstMap["etag"]

	second, err := r.Call(context.Background(), "export.ai_summary_json", map[string]interface{}{"path": dir, "etag": etag})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondMap := second.(map[string]interface{})
	if secondMap["status"] != "not_modified" {
		t.Fatalf("expected not_modified when caller etag matches, got %v", secondMap["status"])
	}
	if secondMap["etag"] != etag {
		t.Fatalf("expected matching etag echoed back, got %v vs %v", secondMap["etag"], etag)
	}
	if _, hasBody := secondMap["json"]; hasBody {
		t.Fatal("expected no body field on a not_modified response")
	}
}

func TestProjectionWithStaleCallerETagReturnsFreshBody(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := cachestore.NewStore(cacheDir, cachestore.Options{})
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	r := NewRegistry(Options{Cache: cache})
	dir := writeSampleProject(t)

	result, err := r.Call(context.Background(), "export.ai_summary_json", map[string]interface{}{"path": dir, "etag": "stale-etag-value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if m["status"] != "ok" {
		t.Fatalf("expected ok for a non-matching caller etag, got %v", m["status"])
	}
	if m["json"] == "" {
		t.Fatal("expected a body when the caller etag does not match")
	}
}

func TestArchRefreshForcesRecomputation(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := cachestore.NewStore(cacheDir, cachestore.Options{})
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	r := NewRegistry(Options{Cache: cache})
	dir := writeSampleProject(t)

	if _, err := r.Call(context.Background(), "analyze.project", map[string]interface{}{"path": dir}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := r.Call(context.Background(), "arch.refresh", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if m["status"] != "ok" {
		t.Fatalf("expected arch.refresh to force a fresh computation, got %v", m["status"])
	}
}

func TestAIRecommendWithoutCyclesSuggestsNextStep(t *testing.T) {
	r := NewRegistry(Options{})
	dir := writeSampleProject(t)

	result, err := r.Call(context.Background(), "ai.recommend", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if _, ok := m["suggestions"]; !ok {
		t.Fatal("expected a suggestions field")
	}
}

func TestStructureGetReturnsETagAndHonorsCallerETag(t *testing.T) {
	cacheDir := t.TempDir()
	cache, err := cachestore.NewStore(cacheDir, cachestore.Options{})
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	r := NewRegistry(Options{Cache: cache})
	dir := writeSampleProject(t)

	first, err := r.Call(context.Background(), "structure.get", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	firstMap := first.(map[string]interface{})
	if firstMap["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", firstMap["status"])
	}
	etag, ok := firstMap["etag"].(string)
	if !ok || etag == "" {
		t.Fatalf("expected a non-empty etag, got %v", firstMap["etag"])
	}
	if _, ok := firstMap["components"]; !ok {
		t.Fatal("expected a components field")
	}

	second, err := r.Call(context.Background(), "structure.get", map[string]interface{}{"path": dir, "etag": etag})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondMap := second.(map[string]interface{})
	if secondMap["status"] != "not_modified" {
		t.Fatalf("expected not_modified for a matching caller etag, got %v", secondMap["status"])
	}
	if _, hasComponents := secondMap["components"]; hasComponents {
		t.Fatal("expected no body fields on a not_modified response")
	}
}

func TestHeavyToolTimesOutWhenArtificialDelayExceedsDeadline(t *testing.T) {
	logger := logging.NewLogger(logging.Config{})
	runner := jobs.NewRunner(1, 4, logger)
	runner.Start()

	r := NewRegistry(Options{
		Runner:    runner,
		Timeout:   20 * time.Millisecond,
		TestDelay: 200 * time.Millisecond,
	})
	dir := writeSampleProject(t)

	_, err := r.Call(context.Background(), "analyze.project", map[string]interface{}{"path": dir})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	ae, ok := archerrors.As(err)
	if !ok || ae.Kind != archerrors.KindTimeout {
		t.Fatalf("expected a KindTimeout archerror, got %v", err)
	}
	if ae.JSONRPCCode() != CodeTimeout {
		t.Fatalf("expected JSON-RPC code %d, got %d", CodeTimeout, ae.JSONRPCCode())
	}
	if ae.HTTPStatus() != 408 {
		t.Fatalf("expected HTTP 408, got %d", ae.HTTPStatus())
	}
}

func TestLightweightToolBypassesWorkerPool(t *testing.T) {
	logger := logging.NewLogger(logging.Config{})
	runner := jobs.NewRunner(1, 4, logger)
	runner.Start()

	r := NewRegistry(Options{
		Runner:    runner,
		Timeout:   20 * time.Millisecond,
		TestDelay: 200 * time.Millisecond,
	})

	// ai.recommend is not in heavyTools, so it must not be subject to the
	// worker-pool timeout (or the artificial heavy-tool delay) at all.
	dir := writeSampleProject(t)
	_, err := r.Call(context.Background(), "ai.recommend", map[string]interface{}{"path": dir})
	if err != nil {
		t.Fatalf("expected a non-heavy tool to run inline without timing out, got %v", err)
	}
}

func TestHistoryRecentWithoutStoreReturnsEmpty(t *testing.T) {
	r := NewRegistry(Options{})
	result, err := r.Call(context.Background(), "history.recent", map[string]interface{}{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := result.(map[string]interface{})
	if m["runs"] == nil {
		t.Fatal("expected a (possibly empty) runs field")
	}
}
