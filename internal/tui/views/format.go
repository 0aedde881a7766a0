package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// colorName formats c as a tview color tag value.
func colorName(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
