package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("shown", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["rows"] != float64(3) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestFromContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "info", "text"))
	defer slog.SetDefault(prev)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	ctx = ContextWithSessionID(ctx, "sess-9")

	FromContext(ctx).Info("hello")
	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") {
		t.Errorf("missing request_id in %q", out)
	}
	if !strings.Contains(out, "session_id=sess-9") {
		t.Errorf("missing session_id in %q", out)
	}

	buf.Reset()
	WithFields(context.Background(), "action", "fill").Info("bare")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "action=fill") {
		t.Errorf("missing field in %q", buf.String())
	}
}
