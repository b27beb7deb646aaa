package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/moviebuddy/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "moviebuddy.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept", "id", 42)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "kept" || entry["id"] != float64(42) {
		t.Fatalf("unexpected entry %v", entry)
	}
	if run, _ := entry["run"].(string); run == "" {
		t.Fatalf("expected run id, got %v", entry)
	}
	if _, ok := entry["source"]; ok {
		t.Fatalf("source recorded above debug level: %v", entry)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("log file mode = %v, want 0600", perm)
	}
}

func TestLoggerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelDebug)
	logger.Debug("refresh", "refresh_token", "r-123", "client_secret", "s-456", "status", 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if strings.Contains(buf.String(), "r-123") || strings.Contains(buf.String(), "s-456") {
		t.Fatalf("secret leaked: %s", buf.String())
	}
	if entry["refresh_token"] != "[redacted]" || entry["status"] != float64(200) {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["source"]; !ok {
		t.Fatalf("expected source at debug level: %v", entry)
	}
}

func TestLoggerRunIDPerLogger(t *testing.T) {
	var a, b bytes.Buffer
	newLogger(&a, slog.LevelInfo).Info("x")
	newLogger(&b, slog.LevelInfo).Info("x")

	var ea, eb map[string]any
	if err := json.Unmarshal(a.Bytes(), &ea); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(b.Bytes(), &eb); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ea["run"] == eb["run"] {
		t.Fatalf("expected distinct run ids, got %v", ea["run"])
	}
}

func TestSetupLoggerRequiresFile(t *testing.T) {
	if _, err := SetupLogger(&config.LoggingConfig{}); err == nil {
		t.Fatal("expected error without a log file")
	}
}
