package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "record with component",
			input: "2025-03-01 12:00:00 INF signed in component=session email=a@b.com",
			want:  Entry{Time: "2025-03-01 12:00:00", Level: LevelInfo, Component: "session", Message: "signed in", Attrs: "email=a@b.com"},
		},
		{
			name:  "warn without attrs",
			input: "2025-03-01 12:00:01 WRN logout request failed",
			want:  Entry{Time: "2025-03-01 12:00:01", Level: LevelWarn, Message: "logout request failed"},
		},
		{
			name:  "debug with only component",
			input: "2025-03-01 12:00:02 DBG offers loaded component=catalog",
			want:  Entry{Time: "2025-03-01 12:00:02", Level: LevelDebug, Component: "catalog", Message: "offers loaded"},
		},
		{
			name:  "not a record",
			input: "panic: something",
			want:  Entry{Message: "panic: something"},
		},
		{
			name:  "unknown level code",
			input: "2025-03-01 12:00:02 XXX hello",
			want:  Entry{Message: "2025-03-01 12:00:02 XXX hello"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Fatalf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	entries := []Entry{
		{Level: LevelDebug, Message: "d"},
		{Level: LevelInfo, Message: "i"},
		{Level: LevelUnknown, Message: "raw"},
		{Level: LevelError, Message: "e"},
	}
	if got := Filter(entries, LevelUnknown); len(got) != 4 {
		t.Fatalf("Filter(unknown) kept %d, want 4", len(got))
	}
	got := Filter(entries, LevelInfo)
	if len(got) != 2 || got[0].Message != "i" || got[1].Message != "e" {
		t.Fatalf("Filter(info) = %#v", got)
	}
}
