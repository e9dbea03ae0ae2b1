// Package logging provides a small leveled logger with JSON or human output,
// used throughout archlens instead of the standard library logger so that
// structured fields travel with every message.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level is a logging severity.
type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

var levelPriority = map[Level]int{
	Debug: 0,
	Info:  1,
	Warn:  2,
	Error: 3,
}

// Format selects the on-the-wire shape of log lines.
type Format string

const (
	FormatJSON  Format = "json"
	FormatHuman Format = "human"
)

// Config controls a Logger's behavior.
type Config struct {
	Format Format
	Level  Level
	Output io.Writer
}

// Logger is a minimal structured logger.
type Logger struct {
	config Config
	writer io.Writer
}

// NewLogger builds a Logger from cfg, defaulting Output to stderr and Level
// to Info when unset.
func NewLogger(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Level == "" {
		cfg.Level = Info
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	return &Logger{config: cfg, writer: cfg.Output}
}

type logEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) shouldLog(level Level) bool {
	return levelPriority[level] >= levelPriority[l.config.Level]
}

func (l *Logger) log(level Level, message string, fields map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}
	if l.config.Format == FormatHuman {
		l.logHuman(level, message, fields)
		return
	}
	l.logJSON(level, message, fields)
}

func (l *Logger) logJSON(level Level, message string, fields map[string]interface{}) {
	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.writer, "{\"level\":\"error\",\"message\":\"log marshal failed: %v\"}\n", err)
		return
	}
	l.writer.Write(append(data, '\n'))
}

func (l *Logger) logHuman(level Level, message string, fields map[string]interface{}) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.writer, "%s [%s] %s", ts, level, message)
	for k, v := range fields {
		fmt.Fprintf(l.writer, " %s=%v", k, v)
	}
	fmt.Fprintln(l.writer)
}

func (l *Logger) Debug(message string, fields map[string]interface{}) { l.log(Debug, message, fields) }
func (l *Logger) Info(message string, fields map[string]interface{})  { l.log(Info, message, fields) }
func (l *Logger) Warn(message string, fields map[string]interface{})  { l.log(Warn, message, fields) }
func (l *Logger) Error(message string, fields map[string]interface{}) { l.log(Error, message, fields) }

// Fields lets call sites build a structured field map inline instead of a
// bare map literal, e.g. logging.WithTool("analyze.project").
type Fields map[string]interface{}

// WithTool seeds Fields with the "tool" correlation key the Request Router
// attaches to every dispatch log line, so a tool call's logs can be grepped
// across both transports by name.
func WithTool(name string) Fields {
	return Fields{"tool": name}
}
