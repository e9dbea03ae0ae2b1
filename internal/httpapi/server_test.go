package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"archlens/internal/jobs"
	"archlens/internal/logging"
	"archlens/internal/mcpserver"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := mcpserver.NewRegistry(mcpserver.Options{})
	logger := logging.NewLogger(logging.Config{Output: bytes.NewBuffer(nil)})
	s := NewServer("127.0.0.1:0", registry, logger, Config{})
	return httptest.NewServer(s.http.Handler)
}

func writeSampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src := "package widget\n\nfunc DoThing() {}\n"
	if err := os.WriteFile(filepath.Join(dir, "widget.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	return dir
}

func TestSchemasListReturnsToolCatalog(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/schemas/list")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["schemas"] == nil {
		t.Fatal("expected a schemas field")
	}
}

func TestToolsCallDispatchesStructureGet(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	dir := writeSampleProject(t)

	reqBody, _ := json.Marshal(map[string]interface{}{
		"name":      "structure.get",
		"arguments": map[string]interface{}{"path": dir},
	})
	resp, err := http.Post(srv.URL+"/tools/call", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestStructureGetRESTEndpoint(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	dir := writeSampleProject(t)

	reqBody, _ := json.Marshal(map[string]interface{}{"path": dir})
	resp, err := http.Post(srv.URL+"/structure/get", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUnknownToolReturns400(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	reqBody, _ := json.Marshal(map[string]interface{}{"name": "no.such.tool", "arguments": map[string]interface{}{}})
	resp, err := http.Post(srv.URL+"/tools/call", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown tool, got %d", resp.StatusCode)
	}
}

func TestToolsCallTimesOutReturns408(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Output: bytes.NewBuffer(nil)})
	runner := jobs.NewRunner(1, 4, logger)
	runner.Start()
	registry := mcpserver.NewRegistry(mcpserver.Options{
		Runner:    runner,
		Timeout:   20 * time.Millisecond,
		TestDelay: 200 * time.Millisecond,
	})
	s := NewServer("127.0.0.1:0", registry, logger, Config{})
	srv := httptest.NewServer(s.http.Handler)
	defer srv.Close()

	dir := writeSampleProject(t)
	reqBody, _ := json.Marshal(map[string]interface{}{
		"name":      "analyze.project",
		"arguments": map[string]interface{}{"path": dir},
	})
	resp, err := http.Post(srv.URL+"/tools/call", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareRejectsMutatingRequestsWithoutToken(t *testing.T) {
	registry := mcpserver.NewRegistry(mcpserver.Options{})
	logger := logging.NewLogger(logging.Config{Output: bytes.NewBuffer(nil)})
	s := NewServer("127.0.0.1:0", registry, logger, Config{AuthToken: "secret"})
	srv := httptest.NewServer(s.http.Handler)
	defer srv.Close()

	reqBody, _ := json.Marshal(map[string]interface{}{"name": "structure.get", "arguments": map[string]interface{}{"path": "."}})
	resp, err := http.Post(srv.URL+"/tools/call", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a bearer token, got %d", resp.StatusCode)
	}
}
