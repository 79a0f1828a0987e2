// Package logtail reads hearth's own log file back for the Logs view.
//
// Read returns the last N lines of a file with a ring buffer, so memory use
// is bounded by N rather than the file size. Parse splits a line written by
// the logging package into time, level, component, message and the
// remaining key=value attributes; Filter drops entries below a level.
//
//	lines, err := logtail.Read(cfg.LogPath, 400)
//	if err != nil {
//		return err
//	}
//	for _, line := range lines {
//		entry := logtail.Parse(line)
//		...
//	}
//
// Lines that are not records (stack traces, partial writes) are kept with
// LevelUnknown and their full text as the message.
package logtail
