package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is a record severity as written by the logging package.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelCodes = map[string]Level{
	"DBG": LevelDebug,
	"INF": LevelInfo,
	"WRN": LevelWarn,
	"ERR": LevelError,
}

// Entry is one parsed log line. Lines that do not look like records keep
// their full text in Message with LevelUnknown.
type Entry struct {
	Time      string
	Level     Level
	Component string
	Message   string
	Attrs     string // key=value pairs, component removed
}

const timeWidth = len("2006-01-02 15:04:05")

// Parse splits a record line into its parts.
func Parse(line string) Entry {
	if len(line) < timeWidth+5 || line[timeWidth] != ' ' {
		return Entry{Message: line}
	}
	level, ok := levelCodes[line[timeWidth+1:timeWidth+4]]
	if !ok || line[timeWidth+4] != ' ' {
		return Entry{Message: line}
	}
	e := Entry{Time: line[:timeWidth], Level: level}
	rest := line[timeWidth+5:]

	msg, attrs := splitAttrs(rest)
	e.Message = msg
	var kept []string
	for _, field := range attrs {
		if v, ok := strings.CutPrefix(field, "component="); ok && e.Component == "" {
			e.Component = v
			continue
		}
		kept = append(kept, field)
	}
	e.Attrs = strings.Join(kept, " ")
	return e
}

// splitAttrs separates the message from the trailing key=value fields. The
// message ends before the first field containing '='.
func splitAttrs(rest string) (string, []string) {
	fields := strings.Fields(rest)
	for i, f := range fields {
		if key, _, ok := strings.Cut(f, "="); ok && key != "" && !strings.ContainsAny(key, `"`) {
			return strings.Join(fields[:i], " "), fields[i:]
		}
	}
	return strings.TrimSpace(rest), nil
}

// Filter keeps entries at or above min. Unparsed lines are kept only when
// min is LevelUnknown.
func Filter(entries []Entry, min Level) []Entry {
	if min == LevelUnknown {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}
