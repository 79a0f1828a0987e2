package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestNew_WritesPlainLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo).With("component", "catalog")

	logger.Debug("hidden")
	logger.Info("offers loaded", "count", 24)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written at info level: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("output contains ANSI escapes: %q", out)
	}
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} INF offers loaded component=catalog count=24\n$`)
	if !pattern.MatchString(out) {
		t.Fatalf("line = %q, want tint format", out)
	}
}

func TestOpen_CreatesDirectoryAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hearth.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := Open(path, slog.LevelDebug)
		if err != nil {
			t.Fatalf("Open returned error: %v", err)
		}
		logger.Warn(msg)
		if err := closer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "WRN first") || !strings.HasSuffix(lines[1], "WRN second") {
		t.Fatalf("log file = %q", string(raw))
	}
}
