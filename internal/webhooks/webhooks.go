// Package webhooks implements the supplemented webhook-notification
// feature: a YAML-configured list of endpoints that receive a best-effort
// fire-and-forget POST of the AI Summary JSON after matching events.
// Disabled unless a config file is present; failures are logged and never
// surfaced to the caller.
package webhooks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"archlens/internal/logging"
)

// Webhook is one configured endpoint.
type Webhook struct {
	URL    string   `yaml:"url"`
	Events []string `yaml:"events"`
}

// Config is the top-level archlens.webhooks.yaml shape.
type Config struct {
	Webhooks []Webhook `yaml:"webhooks"`
}

// Load reads and parses a webhooks config file. A missing file is not an
// error — it yields an empty (disabled) Config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read webhooks config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse webhooks config: %w", err)
	}
	return cfg, nil
}

// Notifier fires matching webhooks for an event.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *logging.Logger
}

// NewNotifier builds a Notifier from cfg using a client with timeout as its
// per-request deadline.
func NewNotifier(cfg Config, timeout time.Duration, logger *logging.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{cfg: cfg, client: &http.Client{Timeout: timeout}, logger: logger}
}

// Notify fires a best-effort POST of payload to every webhook subscribed to
// event. Each delivery runs in its own goroutine; errors are logged, never
// returned, so a slow or unreachable webhook never blocks the caller.
func (n *Notifier) Notify(event string, payload []byte) {
	for _, wh := range n.cfg.Webhooks {
		if !matches(wh.Events, event) {
			continue
		}
		wh := wh
		go n.deliver(wh, event, payload)
	}
}

func (n *Notifier) deliver(wh Webhook, event string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(payload))
	if err != nil {
		n.log("failed to build webhook request", wh.URL, event, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log("webhook delivery failed", wh.URL, event, err)
		return
	}
	resp.Body.Close()
}

func (n *Notifier) log(msg, url, event string, err error) {
	if n.logger == nil {
		return
	}
	n.logger.Warn(msg, map[string]interface{}{"url": url, "event": event, "error": err.Error()})
}

func matches(events []string, event string) bool {
	for _, e := range events {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}
