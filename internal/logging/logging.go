// Package logging builds hearth's slog logger. Records are written by a
// tint handler with colors off, one line per record:
//
//	2025-03-01 12:00:00 INF signed in component=session email=a@b.com
//
// The Logs view reads the same file back through logtail.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
)

// TimeFormat is the timestamp layout of every record.
const TimeFormat = "2006-01-02 15:04:05"

// New returns a logger writing plain tint lines to w.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: TimeFormat,
		NoColor:    true,
	}))
}

// Open appends to the log file at path, creating it and its directory when
// missing. Close the returned closer on shutdown.
func Open(path string, level slog.Leveler) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return New(file, level), file, nil
}
