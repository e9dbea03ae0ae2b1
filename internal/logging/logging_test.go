package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: FormatJSON, Level: Warn, Output: &buf})

	logger.Debug("should be dropped", nil)
	logger.Info("also dropped", nil)
	logger.Warn("kept", map[string]interface{}{"key": "value"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one logged line, got %d: %q", len(lines), buf.String())
	}

	var entry logEntry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry.Message != "kept" || entry.Level != Warn {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Fields["key"] != "value" {
		t.Fatalf("expected field to survive, got %+v", entry.Fields)
	}
}

func TestLoggerHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: FormatHuman, Level: Info, Output: &buf})
	logger.Info("hello", map[string]interface{}{"n": 3})

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "n=3") {
		t.Fatalf("unexpected human output: %q", out)
	}
}

func TestWithToolSeedsToolField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: FormatJSON, Level: Info, Output: &buf})
	logger.Warn("tool call timed out", WithTool("analyze.project"))

	var entry logEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry.Fields["tool"] != "analyze.project" {
		t.Fatalf("expected tool field to survive, got %+v", entry.Fields)
	}
}
