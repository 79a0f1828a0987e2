package ui

import (
	"testing"

	"github.com/five82/hearth/internal/state"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"Canal view loft in Amsterdam", 12, "Canal vie..."},
		{"abc", 2, "ab"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddle_KeepsExtension(t *testing.T) {
	got := truncateMiddle("/home/anna/.local/state/hearth/hearth.log", 24)
	if len([]rune(got)) != 24 {
		t.Fatalf("truncateMiddle length = %d, want 24 (%q)", len([]rune(got)), got)
	}
	if got[len(got)-4:] != ".log" {
		t.Fatalf("truncateMiddle dropped the extension: %q", got)
	}
}

func TestStars(t *testing.T) {
	tests := map[float64]string{
		0:   "☆☆☆☆☆",
		2.4: "★★☆☆☆",
		2.5: "★★★☆☆",
		5:   "★★★★★",
		9:   "★★★★★",
	}
	for rating, want := range tests {
		if got := stars(rating); got != want {
			t.Fatalf("stars(%v) = %q, want %q", rating, got, want)
		}
	}
}

func TestPluralAndPrice(t *testing.T) {
	if got := plural(1, "place"); got != "1 place" {
		t.Fatalf("plural(1) = %q", got)
	}
	if got := plural(3, "place"); got != "3 places" {
		t.Fatalf("plural(3) = %q", got)
	}
	if got := formatPrice(120); got != "€120" {
		t.Fatalf("formatPrice = %q", got)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("apartment"); got != "Apartment" {
		t.Fatalf("titleCase = %q", got)
	}
	if got := titleCase("guest_house"); got != "Guest House" {
		t.Fatalf("titleCase underscore = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("a quiet place near the old town", 12)
	want := []string{"a quiet", "place near", "the old town"}
	if len(lines) != len(want) {
		t.Fatalf("wrapText = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("wrapText[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() = %v, want 3 themes", names)
	}
	for i, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
		if got, want := NextTheme(name), names[(i+1)%len(names)]; got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := GetTheme("Unknown").Name; got != names[0] {
		t.Fatalf("GetTheme(Unknown) = %q, want %q", got, names[0])
	}
	if got := NextTheme("Unknown"); got != names[0] {
		t.Fatalf("NextTheme(Unknown) = %q, want %q", got, names[0])
	}
}

func TestThemesCoverEveryStatus(t *testing.T) {
	statuses := []state.RequestStatus{
		state.StatusIdle, state.StatusLoading, state.StatusSuccess, state.StatusError, state.StatusNotFound,
	}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, s := range statuses {
			if theme.StatusColors[s] == "" {
				t.Fatalf("theme %s has no color for %v", name, s)
			}
		}
	}
}
