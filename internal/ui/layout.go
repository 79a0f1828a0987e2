package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the map pane is hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the offer type column.
	LayoutWideWidth = 130

	// MapPaneWidth is the width of the map pane beside the catalog list.
	MapPaneWidth = 38
)

// Chrome heights: header, command bar and the status line above each box.
const (
	chromeHeight = 3
	minBoxHeight = 5
)

// Review form limits, mirroring what the backend accepts.
const (
	ReviewMinLength = 50
	ReviewMaxLength = 300
	MaxRating       = 5
)

// Log display limits.
const (
	// LogReadLimit is the number of trailing log lines read per refresh.
	LogReadLimit = 2000

	// LogRefreshInterval is the minimum time between log file reads.
	LogRefreshInterval = 2 * time.Second
)

// Timing constants.
const (
	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = 500 * time.Millisecond

	// NoticeTTL is how long a transient notice stays in the header.
	NoticeTTL = 5 * time.Second
)
