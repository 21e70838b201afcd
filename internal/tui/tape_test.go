package tui

import (
	"strings"
	"testing"
)

func tapeLines(t *testing.T, h, width int) []string {
	t.Helper()
	out := renderTape(h, width)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 tape lines, got %d: %q", len(lines), out)
	}
	return lines
}

func TestTapeCentersCardinalLabel(t *testing.T) {
	cases := []struct {
		heading int
		label   rune
	}{
		{360, 'N'},
		{90, 'E'},
		{180, 'S'},
		{270, 'W'},
	}
	for _, tc := range cases {
		lines := tapeLines(t, tc.heading, 61)
		center := 30
		if got := []rune(lines[0])[center]; got != '▼' {
			t.Fatalf("heading %d: expected marker at center, got %q", tc.heading, got)
		}
		if got := []rune(lines[1])[center]; got != tc.label {
			t.Fatalf("heading %d: expected %q under marker, got %q in %q", tc.heading, tc.label, got, lines[1])
		}
		if got := []rune(lines[2])[center]; got != '|' {
			t.Fatalf("heading %d: expected major tick at center, got %q", tc.heading, got)
		}
	}
}

func TestTapeShowsNumericLabels(t *testing.T) {
	lines := tapeLines(t, 360, 61)
	if !strings.Contains(lines[1], "030") || !strings.Contains(lines[1], "330") {
		t.Fatalf("expected neighbouring labels around north, got %q", lines[1])
	}
}

func TestTapeTooNarrow(t *testing.T) {
	if got := renderTape(360, 6); got != "" {
		t.Fatalf("expected empty tape, got %q", got)
	}
}

func TestTapeLabel(t *testing.T) {
	if got := tapeLabel(60); got != "060" {
		t.Fatalf("expected 060, got %q", got)
	}
	if got := tapeLabel(360); got != "N" {
		t.Fatalf("expected N, got %q", got)
	}
}
