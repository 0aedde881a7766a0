package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/internal/status"
)

var logoArt = []string{
	" ╔╗ ╔═╗╔═╗",
	" ╠╩╗╠═╝╠═╝",
	" ╚═╝╩  ╩",
}

// Logo draws the BPP mark in the color of the API state, so a lost
// connection shows on every page.
type Logo struct {
	*tview.TextView
	theme *Theme
	state status.State
}

// NewLogo creates a logo in the Connecting color.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{
		TextView: tv,
		theme:    theme,
		state:    status.Connecting,
	}
	l.render()
	return l
}

// SetState recolors the logo.
func (l *Logo) SetState(s status.State) {
	if s == l.state {
		return
	}
	l.state = s
	l.render()
}

func (l *Logo) render() {
	l.Clear()
	color := colorName(l.theme.StatusColor(l.state))
	for _, line := range logoArt {
		_, _ = fmt.Fprintf(l, "[%s::b]%s[-:-:-]\n", color, line)
	}
	_, _ = fmt.Fprintf(l, "[%s]Beeper in a terminal[-:-:-]", colorName(l.theme.FgColor))
}
