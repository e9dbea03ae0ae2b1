package webhooks

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Webhooks) != 0 {
		t.Fatalf("expected no webhooks, got %+v", cfg.Webhooks)
	}
}

func TestLoadParsesWebhooksYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archlens.webhooks.yaml")
	content := "webhooks:\n  - url: http://example.invalid/hook\n    events: [\"analyze.project\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Webhooks) != 1 || cfg.Webhooks[0].URL != "http://example.invalid/hook" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNotifyDeliversToMatchingEndpointOnly(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := Config{Webhooks: []Webhook{
		{URL: srv.URL, Events: []string{"analyze.project"}},
		{URL: srv.URL, Events: []string{"export.ai_compact"}},
	}}
	n := NewNotifier(cfg, time.Second, nil)
	n.Notify("analyze.project", []byte(`{}`))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		got := hits
		mu.Unlock()
		if got == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected exactly one matching webhook to be hit")
}
