package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", "json", &buf)
	defer Init("info", "text")

	Debug("hidden %d", 1)
	Info("estimate %s ready", "abc")
	Error("model failed: %v", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var entry struct {
		Time  string `json:"time"`
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Line is not JSON: %v", err)
	}
	if entry.Level != "info" || entry.Msg != "estimate abc ready" || entry.Time == "" {
		t.Errorf("Unexpected entry: %+v", entry)
	}

	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("Line is not JSON: %v", err)
	}
	if entry.Level != "error" {
		t.Errorf("Expected error level, got %s", entry.Level)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("warn", "text", &buf)
	defer Init("info", "text")

	Info("skipped")
	Warn("zip %s missing from table", "48098")

	out := buf.String()
	if strings.Contains(out, "skipped") {
		t.Error("Info must be filtered at warn level")
	}
	if !strings.Contains(out, "[WARN] zip 48098 missing from table") {
		t.Errorf("Unexpected output: %q", out)
	}
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("Expected caller file in text output: %q", out)
	}
}
