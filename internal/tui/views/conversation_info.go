package views

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
	"github.com/matheus3301/bpp/internal/tui/ui"
)

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
	now   func() time.Time
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
		now:      time.Now,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// FocusTarget implements Component.
func (ci *ConversationInfo) FocusTarget() tview.Primitive { return ci }

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(chat *beeper.Chat) {
	ci.Clear()
	if chat == nil {
		return
	}
	_, _ = fmt.Fprint(ci, ci.text(chat))
	ci.SetTitle(fmt.Sprintf(" %s Details ", tview.Escape(chat.DisplayName())))
}

func (ci *ConversationInfo) text(chat *beeper.Chat) string {
	fg := colorName(ci.theme.FgColor)
	ct := colorName(ci.theme.CounterColor)

	chatType := "Direct Message"
	switch {
	case chat.IsGroup():
		chatType = "Group"
	case chat.Type != beeper.ChatTypeSingle:
		chatType = string(chat.Type)
	}

	lastActive := "-"
	if t, ok := chat.LastActivityTime(); ok {
		lastActive = present.Timestamp(t, ci.now())
	}
	lastRead := "-"
	if chat.LastReadMessageSortKey != nil {
		lastRead = strconv.FormatUint(*chat.LastReadMessageSortKey, 10)
	}
	flags := present.Flags(chat)
	if flags == "" {
		flags = "-"
	}
	preview := present.Preview(chat)
	if preview == "" {
		preview = "-"
	}

	rows := [][2]string{
		{"Name", chat.DisplayName()},
		{"Title", chat.Title},
		{"ID", chat.ID},
		{"Account", chat.AccountID},
		{"Network", chat.Network},
		{"Type", chatType},
		{"Unread", strconv.FormatUint(uint64(chat.UnreadCount), 10)},
		{"Last Read", lastRead},
		{"Last Active", lastActive},
		{"Flags", flags},
		{"Last Message", preview},
	}
	if chat.LocalChatID != nil {
		rows = slices.Insert(rows, 3, [2]string{"Local ID", *chat.LocalChatID})
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, " [%s::b]%-13s[-:-:-] [%s]%s[-]\n", fg, r[0]+":", ct, escapeLine(r[1]))
	}

	fmt.Fprintf(&b, "\n [%s::b]Participants (%d):[-:-:-]\n", fg, chat.Participants.Total)
	for _, u := range chat.Participants.Items {
		fmt.Fprintf(&b, "   [%s]%s[-]\n", ct, escapeLine(participant(u)))
	}
	if hidden := int(chat.Participants.Total) - len(chat.Participants.Items); chat.Participants.HasMore && hidden > 0 {
		fmt.Fprintf(&b, "   [%s]… and %d more[-]\n", colorName(ci.theme.MutedColor), hidden)
	}
	return b.String()
}

func participant(u beeper.User) string {
	name := u.ID
	switch {
	case u.FullName != nil && *u.FullName != "":
		name = *u.FullName
	case u.Username != nil && *u.Username != "":
		name = *u.Username
	}
	var extra []string
	if u.Username != nil && *u.Username != "" && name != *u.Username {
		extra = append(extra, "@"+*u.Username)
	}
	if u.PhoneNumber != nil {
		extra = append(extra, *u.PhoneNumber)
	}
	if u.IsSelf != nil && *u.IsSelf {
		extra = append(extra, "you")
	}
	if len(extra) > 0 {
		name += " (" + strings.Join(extra, ", ") + ")"
	}
	return name
}
