package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chat_cli/pkg/config"
)

func TestInitCreatesLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "logs", "chat_cli.log")

	cfg := config.Config{LogLevel: "info"}
	logger, err := initTo(cfg, logPath)
	if err != nil {
		t.Fatalf("initTo() error: %v", err)
	}

	logger.Info("hello", slog.String("component", "test"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("Expected log to contain message, got: %s", string(data))
	}
}

func TestInitRespectsLevel(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "chat_cli.log")

	cfg := config.Config{LogLevel: "error"}
	logger, err := initTo(cfg, logPath)
	if err != nil {
		t.Fatalf("initTo() error: %v", err)
	}

	logger.Info("suppressed")
	logger.Error("surfaced")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Error("Expected info message to be filtered at error level")
	}
	if !strings.Contains(string(data), "surfaced") {
		t.Error("Expected error message in log")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
