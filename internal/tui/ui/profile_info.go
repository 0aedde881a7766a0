package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/internal/status"
)

// ProfileData holds what the header shows about the active profile.
type ProfileData struct {
	Profile     string
	BaseURL     string
	Status      status.State
	Accounts    int
	Chats       int
	Unread      int
	LastRefresh time.Time
}

// ProfileInfo displays profile and connection metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(data *ProfileData, now time.Time) {
	pi.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(pi.theme.FgColor)
	counterColor := colorName(pi.theme.CounterColor)
	statusColor := colorName(pi.theme.StatusColor(data.Status))
	unreadColor := counterColor
	if data.Unread > 0 {
		unreadColor = colorName(pi.theme.UnreadColor)
	}

	text := fmt.Sprintf(
		"[%s::b]Profile:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]API:[-:-:-]      [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]   [%s::b]%s[-:-:-]\n"+
			"[%s::b]Accounts:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Chats:[-:-:-]    [%s]%d[-] [%s](%d unread)[-]\n"+
			"[%s::b]Synced:[-:-:-]   [%s]%s[-]",
		fgColor, counterColor, data.Profile,
		fgColor, counterColor, data.BaseURL,
		fgColor, statusColor, data.Status,
		fgColor, counterColor, data.Accounts,
		fgColor, counterColor, data.Chats, unreadColor, data.Unread,
		fgColor, counterColor, formatSince(data.LastRefresh, now),
	)

	_, _ = fmt.Fprint(pi, text)
}

func formatSince(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%dm ago", int(d.Hours()), int(d.Minutes())%60)
	}
}
