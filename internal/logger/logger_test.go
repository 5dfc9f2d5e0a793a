package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarning, false},
		{"WARNING", LevelWarning, false},
		{"error", LevelError, false},
		{"fatal", LevelFatal, false},
		{"xyzzy", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSetupJSON(t *testing.T) {
	if err := Setup(context.Background(), Config{Level: "warn"}); err != nil {
		t.Fatalf("Setup() failed: %v", err)
	}
	defer SetLevel(LevelInfo)

	if GetLevel() != LevelWarning {
		t.Errorf("expected WARN level, got %v", GetLevel())
	}
}

func TestWarnAndErrorAreCounted(t *testing.T) {
	var buf bytes.Buffer
	setupJSONLogging(&buf)
	defer setupJSONLogging(&bytes.Buffer{})

	warnings := TotalWarnings.Load()
	errs := TotalErrors.Load()

	Warn("model slow", "ms", 12)
	Error("model failed", "error", "boom")

	if TotalWarnings.Load() != warnings+1 || TotalErrors.Load() != errs+1 {
		t.Error("warn/error counters should increment on every call")
	}

	// sample rate defaults to 1, so both lines are written
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[1], &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "model failed" || entry["level"] != "ERROR" {
		t.Errorf("unexpected entry %v", entry)
	}
}
