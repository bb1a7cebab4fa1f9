package main

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt composites an overlay string on top of a base string at the given
// character position (x, y). Both are treated as line-based grids.
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	w := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		baseLines[row] = spliceLine(baseLines[row], fit(line, w), x, width)
	}
	return strings.Join(baseLines, "\n")
}

// spliceLine overwrites the cells of line starting at column x with patch,
// keeping whatever survives on either side. ANSI sequences in the kept parts
// stay intact.
func spliceLine(line, patch string, x, width int) string {
	full := padRight(line, width)
	left := padRight(ansi.Truncate(full, x, ""), x)
	end := x + ansi.StringWidth(patch)
	right := ""
	if width > end {
		right = ansi.TruncateLeft(full, end, "")
		if gap := width - end - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
	}
	return left + patch + right
}

// centerOverlay composites overlay centered over base within (width, height).
func centerOverlay(base, overlay string, width, height int) string {
	lines := splitLines(overlay)
	x := (width - maxLineWidth(lines)) / 2
	if x < 0 {
		x = 0
	}
	y := (height - len(lines)) / 2
	if y < 0 {
		y = 0
	}
	return overlayAt(base, overlay, x, y, width, height)
}

// ---------------------------------------------------------------------------
// String utilities
// ---------------------------------------------------------------------------

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to width cells, appending an ellipsis if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// fit pads or truncates s to exactly width cells.
func fit(s string, width int) string {
	return padRight(truncate(s, width), width)
}
