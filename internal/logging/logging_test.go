package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resyncinator/internal/logging"
	"resyncinator/internal/services"
)

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "ark")
	component.Info("repacking archive unit", logging.String("archive_name", "MAIN"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO ark: repacking archive unit") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "archive_name=MAIN") {
		t.Fatalf("missing attr in line: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("suppressed")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Fatalf("info line should be suppressed at warn level: %q", data)
	}
	if !strings.Contains(string(data), "kept") {
		t.Fatalf("warn line missing: %q", data)
	}
}

func TestJSONFormatEmitsStructuredOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", logging.Int("count", 3))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"hello"`) || !strings.Contains(line, `"count":3`) {
		t.Fatalf("unexpected json line: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{"stderr"}})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsPipelineFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithUnit(ctx, "/gen/MAIN.HDR")
	logging.WithContext(ctx, logger).Info("processing")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "run_id=run-1") {
		t.Fatalf("missing run_id: %q", line)
	}
	if !strings.Contains(line, "unit=/gen/MAIN.HDR") {
		t.Fatalf("missing unit: %q", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("goes nowhere", logging.String("k", "v"))
}
