package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/hdgdrill/internal/heading"
)

// tapeStep is the number of degrees covered by one column of the tape.
const tapeStep = 5

// renderTape draws a horizontal compass tape centered on h: a marker line,
// a label line every 30 degrees and a tick line.
func renderTape(h, width int) string {
	if width < 7 {
		return ""
	}
	center := width / 2
	marker := []rune(strings.Repeat(" ", width))
	labels := []rune(strings.Repeat(" ", width))
	ticks := []rune(strings.Repeat(" ", width))
	marker[center] = '▼'

	for col := 0; col < width; col++ {
		deg := h + (col-center)*tapeStep
		switch {
		case floorMod(deg, 30) < tapeStep:
			ticks[col] = '|'
			placeLabel(labels, col, tapeLabel(heading.Normalize(deg-floorMod(deg, 30))))
		case floorMod(deg, 10) < tapeStep:
			ticks[col] = '.'
		}
	}
	lines := []string{string(marker), string(labels), string(ticks)}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}

func tapeLabel(deg int) string {
	switch deg {
	case 360:
		return "N"
	case 90:
		return "E"
	case 180:
		return "S"
	case 270:
		return "W"
	}
	return fmt.Sprintf("%03d", deg)
}

func placeLabel(line []rune, col int, label string) {
	runes := []rune(label)
	start := col - len(runes)/2
	for i, r := range runes {
		pos := start + i
		if pos >= 0 && pos < len(line) {
			line[pos] = r
		}
	}
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
