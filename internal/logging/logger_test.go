package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prick/internal/config"
	"prick/internal/logging"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.log")
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("catalog opened", logging.String("catalog", "x.db"))

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if !strings.Contains(content, "catalog opened") || !strings.Contains(content, "catalog=x.db") {
		t.Fatalf("unexpected log content %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	logger.Debug("hidden")

	content := readLog(t, logPath)
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	content := readLog(t, logPath)
	if !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndScanID(t *testing.T) {
	logPath := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithScanID(context.Background(), "5f0c8a1e-1111-2222-3333-444455556666")
	ctx = logging.WithPath(ctx, "/media/a file.mkv")
	logging.NewComponentLogger(logger, "scanner").InfoContext(ctx, "fingerprinted")

	content := readLog(t, logPath)
	for _, want := range []string{"[5f0c8a1e] scanner: fingerprinted", `path="/media/a file.mkv"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should be rendered as prefix, got %q", content)
	}
}

func TestJSONLoggerUsesLowercaseLevels(t *testing.T) {
	logPath := tempLogPath(t)
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("verify mismatch", logging.Int("stream", 1))

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record["stream"] != float64(1) {
		t.Fatalf("expected stream attr, got %v", record["stream"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "noop", "")
}

func TestContextFields(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
	ctx := logging.WithScanID(context.Background(), "abc")
	id, ok := logging.ScanIDFromContext(ctx)
	if !ok || id != "abc" {
		t.Fatalf("ScanIDFromContext = %q, %v", id, ok)
	}
	fields := logging.ContextFields(logging.WithPath(ctx, "/x"))
	if len(fields) != 2 || fields[0].Key != logging.FieldScanID || fields[1].Key != logging.FieldPath {
		t.Fatalf("unexpected fields %v", fields)
	}
}
