// ABOUTME: Tests for logger configuration
// ABOUTME: Checks level parsing, output format, and the debug log file

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_JSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Init(&buf, "info", "json")
	slog.Debug("hidden")
	slog.Info("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if entry["msg"] != "shown" || entry["key"] != "value" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestInitFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := filepath.Join(t.TempDir(), "nested")
	closeFn, err := InitFile(dir, "debug", "text")
	if err != nil {
		t.Fatal(err)
	}
	slog.Debug("into the file")
	closeFn()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "into the file") {
		t.Errorf("expected message in debug log, got %q", data)
	}
}
