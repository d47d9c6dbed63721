package logging

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("default level = %q, want info", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("default format = %q, want text", cfg.Format)
	}
}

func TestSetup_TextAndJSON(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		cfg := Config{Level: "debug", Format: format, Output: "stderr"}
		if err := Setup(cfg); err != nil {
			t.Errorf("Setup(%s) returned error: %v", format, err)
		}
	}
}

func TestSetup_UnknownLevel(t *testing.T) {
	err := Setup(Config{Level: "verbose", Format: "text", Output: "stderr"})
	if err == nil {
		t.Error("Setup() should reject unknown level")
	}
}

func TestSetup_UnknownFormat(t *testing.T) {
	err := Setup(Config{Level: "info", Format: "xml", Output: "stderr"})
	if err == nil {
		t.Error("Setup() should reject unknown format")
	}
}

func TestSetup_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cfg := Config{Level: "info", Format: "text", Output: path}

	if err := Setup(cfg); err != nil {
		t.Fatalf("Setup() with file output returned error: %v", err)
	}

	Info("test message")

	if err := Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}

	// Restore stderr logging for other tests.
	if err := Setup(DefaultConfig()); err != nil {
		t.Fatalf("Setup() restore failed: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil {
			t.Errorf("parseLevel(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithComponent(t *testing.T) {
	logger := WithComponent("test-component")
	if logger == nil {
		t.Fatal("WithComponent() returned nil")
	}
}

func TestDefault_NotNil(t *testing.T) {
	if Default() == nil {
		t.Error("Default() returned nil")
	}
}
