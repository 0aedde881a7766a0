package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/internal/tui/ui"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// FocusTarget implements Component.
func (hv *HelpView) FocusTarget() tview.Primitive { return hv }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "esc", Description: "Back"},
	}
}

type helpEntry struct{ key, desc string }

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{"Global Keys", []helpEntry{
		{":", "Command mode"},
		{"/", "Filter conversations"},
		{"?", "Help"},
		{"esc", "Cancel / go back"},
		{"ctrl-r", "Reload from Beeper Desktop"},
		{"q", "Quit / back"},
		{"ctrl-c", "Quit immediately"},
	}},
	{"Conversation List", []helpEntry{
		{"enter", "Open conversation"},
		{"1-9", "Jump to Nth chat"},
		{"0", "Clear filter"},
		{"s", "Cycle sort (recent, unread, name)"},
		{"m", "Load more conversations"},
		{"f", "Focus Beeper Desktop"},
	}},
	{"Message Thread", []helpEntry{
		{"i", "Focus composer"},
		{"j/k", "Select newer / older message"},
		{"r", "Reply to selected message"},
		{"o", "Load older messages"},
		{"d", "Conversation details"},
		{"f", "Open chat in Beeper Desktop"},
		{"enter", "Send (in composer)"},
	}},
	{"Commands (: mode)", []helpEntry{
		{":search <query>", "Search messages"},
		{":chat <name>", "Open chat by fuzzy name"},
		{":reply <n>", "Reply to Nth newest message"},
		{":archive / :unarchive", "Archive the open chat"},
		{":remind <when>", "Remind in 2h, 3d or at RFC 3339 time"},
		{":unremind", "Clear the reminder"},
		{":focus [draft]", "Focus Beeper Desktop, optionally with a draft"},
		{":token <value>", "Use a new access token"},
		{":reload", "Reload everything"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit application"},
	}},
}

func (hv *HelpView) render() {
	kc := colorName(hv.theme.MenuKeyColor)

	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, e := range s.entries {
			fmt.Fprintf(&b, "  [%s]%-24s[-:-:-] %s\n", kc, tview.Escape(e.key), e.desc)
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
