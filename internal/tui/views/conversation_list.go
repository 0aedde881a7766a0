package views

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
	"github.com/matheus3301/bpp/internal/tui/ui"
)

// SortMode orders the conversation list.
type SortMode int

const (
	SortRecent SortMode = iota // server order, most recent activity first
	SortUnread
	SortName
)

func (m SortMode) String() string {
	switch m {
	case SortUnread:
		return "unread"
	case SortName:
		return "name"
	default:
		return "recent"
	}
}

// ConversationList is the main chat list view.
type ConversationList struct {
	*tview.Table
	theme   *ui.Theme
	chats   []beeper.Chat
	visible []beeper.Chat
	filter  string
	sort    SortMode
	hasMore bool
	now     func() time.Time
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Conversations ")
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{
		Table: table,
		theme: theme,
		now:   time.Now,
	}
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Conversations" }

// FocusTarget implements Component.
func (cl *ConversationList) FocusTarget() tview.Primitive { return cl }

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: ":", Description: "Command"},
		{Key: "s", Description: "Sort"},
		{Key: "m", Description: "More"},
		{Key: "f", Description: "Focus"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update replaces the chat list. hasMore tells whether older chats exist.
func (cl *ConversationList) Update(chats []beeper.Chat, hasMore bool) {
	selected := cl.SelectedChat()
	cl.chats = chats
	cl.hasMore = hasMore
	cl.render()
	cl.selectID(selected)
}

// SetFilter sets the active filter text and re-renders.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = strings.TrimSpace(filter)
	cl.render()
	cl.Select(1, 0)
}

// ClearFilter clears the active filter.
func (cl *ConversationList) ClearFilter() {
	cl.SetFilter("")
}

// Filter returns the active filter.
func (cl *ConversationList) Filter() string { return cl.filter }

// CycleSort switches to the next sort mode and returns it.
func (cl *ConversationList) CycleSort() SortMode {
	cl.sort = (cl.sort + 1) % 3
	selected := cl.SelectedChat()
	cl.render()
	cl.selectID(selected)
	return cl.sort
}

func (cl *ConversationList) arrange() []beeper.Chat {
	out := present.FilterChats(cl.chats, cl.filter)
	if cl.filter != "" {
		return out
	}
	out = slices.Clone(out)
	switch cl.sort {
	case SortUnread:
		slices.SortStableFunc(out, func(a, b beeper.Chat) int {
			return cmp.Compare(b.UnreadCount, a.UnreadCount)
		})
	case SortName:
		slices.SortStableFunc(out, func(a, b beeper.Chat) int {
			return cmp.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
		})
	}
	return out
}

func (cl *ConversationList) render() {
	cl.Clear()
	cl.visible = cl.arrange()

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" NETWORK", 0},
		{" FLAGS", 0},
		{" TIME", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	now := cl.now()
	for i := range cl.visible {
		chat := &cl.visible[i]
		row := i + 1

		name := chat.DisplayName()
		color := cl.theme.FgColor
		if chat.UnreadCount > 0 {
			name = fmt.Sprintf("(%d) %s", chat.UnreadCount, name)
			color = cl.theme.UnreadColor
		}
		if chat.IsMuted || chat.IsArchived {
			color = cl.theme.MutedColor
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+escapeLine(name)).SetExpansion(1).SetTextColor(color))
		cl.SetCell(row, 1, tview.NewTableCell(" "+escapeLine(present.Preview(chat))).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 2, tview.NewTableCell(" "+escapeLine(chat.Network)).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 3, tview.NewTableCell(" "+present.Flags(chat)).SetTextColor(cl.theme.MutedColor))
		cl.SetCell(row, 4, tview.NewTableCell(" "+present.ChatTime(chat, now)).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
	}

	more := ""
	if cl.hasMore {
		more = "+"
	}
	switch {
	case cl.filter != "":
		cl.SetTitle(fmt.Sprintf(" Conversations (%d/%d%s) filter: %s ", len(cl.visible), len(cl.chats), more, tview.Escape(cl.filter)))
	default:
		cl.SetTitle(fmt.Sprintf(" Conversations (%d%s) sort: %s ", len(cl.chats), more, cl.sort))
	}
}

func (cl *ConversationList) selectID(id string) {
	if id == "" {
		return
	}
	for i := range cl.visible {
		if cl.visible[i].ID == id {
			cl.Select(i+1, 0)
			return
		}
	}
}

// SelectedChat returns the ID of the currently selected chat.
func (cl *ConversationList) SelectedChat() string {
	row, _ := cl.GetSelection()
	return cl.ChatByIndex(row)
}

// ChatByIndex returns the ID of the Nth visible conversation (1-based).
func (cl *ConversationList) ChatByIndex(n int) string {
	if n < 1 || n > len(cl.visible) {
		return ""
	}
	return cl.visible[n-1].ID
}
