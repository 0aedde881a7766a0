package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/internal/status"
	"github.com/matheus3301/bpp/internal/tui/ui"
)

// ConnectionView explains why the API cannot be used and how to fix it.
type ConnectionView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConnectionView creates a new connection view.
func NewConnectionView(theme *ui.Theme) *ConnectionView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Connection ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConnectionView{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (cv *ConnectionView) Name() string { return "Connection" }

// FocusTarget implements Component.
func (cv *ConnectionView) FocusTarget() tview.Primitive { return cv }

// Hints implements Component.
func (cv *ConnectionView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "ctrl-r", Description: "Retry"},
		{Key: ":", Description: "Command"},
		{Key: "q", Description: "Quit"},
	}
}

// Update renders guidance for state.
func (cv *ConnectionView) Update(state status.State, baseURL string, err error) {
	cv.Clear()
	_, _ = fmt.Fprint(cv, cv.text(state, baseURL, err))
}

func (cv *ConnectionView) text(state status.State, baseURL string, err error) string {
	sc := colorName(cv.theme.StatusColor(state))
	kc := colorName(cv.theme.MenuKeyColor)

	var b strings.Builder
	fmt.Fprintf(&b, "\n\n[%s::b]%s[-:-:-]\n\n", sc, state)
	switch state {
	case status.Connecting:
		fmt.Fprintf(&b, "Connecting to %s …\n", tview.Escape(baseURL))
	case status.Unreachable:
		fmt.Fprintf(&b, "Beeper Desktop is not answering at %s.\n\n", tview.Escape(baseURL))
		b.WriteString("Make sure Beeper Desktop is running and the Desktop API is enabled\n")
		b.WriteString("under Settings > Developers.\n")
	case status.AuthRequired:
		b.WriteString("Beeper Desktop rejected the access token.\n\n")
		fmt.Fprintf(&b, "Enter a new one with [%s]:token <value>[-] or run [%s]bppctl login[-].\n", kc, kc)
	case status.Degraded:
		b.WriteString("Beeper Desktop answered with an error.\n")
	}
	if err != nil && state != status.Ready {
		fmt.Fprintf(&b, "\n[%s]%s[-]\n", colorName(cv.theme.MutedColor), tview.Escape(err.Error()))
	}
	fmt.Fprintf(&b, "\nPress [%s]ctrl-r[-] to retry.\n", kc)
	return b.String()
}
