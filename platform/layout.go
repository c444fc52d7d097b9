package platform

import (
	"strings"
	"unicode/utf8"
)

// Approximate glyph metrics used to size the popup
const (
	CharWidth    = 8
	LineHeight   = 20
	rightMargin  = 20
	bottomMargin = 40 // leaves room for the taskbar

	minWidthChars  = 30
	minHeightLines = 3
)

// PopupSize returns the popup dimensions in characters and lines for text,
// clipped so the window fits on a screen of the given size when placed at
// offset (x, y). Both dimensions are at least 1, even when the offset lies
// beyond the screen edge.
func PopupSize(text string, screenW, screenH, x, y int) (width, height int) {
	maxWidth := (screenW - x - rightMargin) / CharWidth
	maxHeight := (screenH - y - bottomMargin) / LineHeight

	lines := strings.Split(text, "\n")
	longest := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}

	width = min(max(minWidthChars, longest+5), maxWidth)
	height = min(max(minHeightLines, len(lines)+2), maxHeight)
	return max(width, 1), max(height, 1)
}
