package views

import (
	"strings"
	"unicode"

	"github.com/rivo/tview"
)

// escapeText prepares text that came from the server for a tview view. Code
// points tcell draws at the wrong width are dropped, so 👍🏻 shows as 👍 and a
// ZWJ family splits into its members. Other control characters except
// newline become spaces, and style tags are escaped.
func escapeText(s string) string {
	return tview.Escape(strings.Map(terminalRune, s))
}

// escapeLine is escapeText for single-line table cells and titles.
func escapeLine(s string) string {
	return escapeText(strings.ReplaceAll(s, "\n", " "))
}

func terminalRune(r rune) rune {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return -1
	case r == 0x200D: // zero width joiner
		return -1
	case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
		return -1
	case r == '\n':
		return r
	case unicode.IsControl(r):
		return ' '
	default:
		return r
	}
}
