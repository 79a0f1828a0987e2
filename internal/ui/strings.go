package ui

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by removing characters from the middle,
// preserving both the beginning and end. Paths keep their file extension.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}

	ellipsis := []rune("…/")
	if limit <= len(ellipsis)+1 {
		return string(runes[:limit])
	}

	if lastDot, lastSlash := strings.LastIndex(value, "."), strings.LastIndex(value, "/"); lastDot > lastSlash && lastSlash >= 0 {
		ext := []rune(value[lastDot:])
		base := []rune(value[:lastDot])
		if len(ext) < 10 && len(ext) < limit/2 {
			keep := limit - len(ext) - len(ellipsis)
			prefix := keep / 2
			suffix := keep - prefix
			return string(base[:prefix]) + string(ellipsis) + string(base[len(base)-suffix:]) + string(ext)
		}
	}

	keep := limit - len(ellipsis)
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + string(ellipsis) + string(runes[len(runes)-suffix:])
}

// titleCase converts an underscore or space separated string to title case.
func titleCase(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(value), " "))
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// stars renders a 0-5 rating as five filled or empty stars. Ratings are
// rounded to the nearest whole star.
func stars(rating float64) string {
	filled := int(math.Round(rating))
	filled = min(max(filled, 0), 5)
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

// formatPrice renders a nightly price in euros.
func formatPrice(price int) string {
	return fmt.Sprintf("€%d", price)
}

// plural returns "1 review", "2 reviews" and so on.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// ternary returns a if cond is true, otherwise b.
func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
