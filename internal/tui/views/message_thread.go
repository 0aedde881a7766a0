package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
	"github.com/matheus3301/bpp/internal/tui/ui"
)

// MessageThread displays messages and a composer for a single chat. Messages
// are kept newest first, as the API returns them, and drawn oldest first.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	chatName string
	chatID   string
	msgs     []beeper.Message
	hasOlder bool
	selected int
	replyTo  string
	onSend   func(text string)
	now      func() time.Time
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
		selected: -1,
		now:      time.Now,
	}
	mt.renderComposerTitle()

	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil {
			text := strings.TrimSpace(composer.GetText())
			if text != "" {
				mt.onSend(text)
				composer.SetText("")
			}
		}
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// FocusTarget implements Component.
func (mt *MessageThread) FocusTarget() tview.Primitive { return mt.messages }

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "j/k", Description: "Select"},
		{Key: "r", Description: "Reply"},
		{Key: "o", Description: "Older"},
		{Key: "d", Description: "Details"},
		{Key: "f", Description: "Focus"},
		{Key: "esc", Description: "Back"},
		{Key: "?", Description: "Help"},
	}
}

// SetChat switches the view to a chat, dropping any selection and reply.
func (mt *MessageThread) SetChat(id, name string) {
	if id != mt.chatID {
		mt.selected = -1
		mt.replyTo = ""
		mt.composer.SetText("")
	}
	mt.chatID = id
	mt.chatName = name
	mt.messages.SetTitle(fmt.Sprintf(" %s ", tview.Escape(name)))
	mt.renderComposerTitle()
}

// ChatID returns the current chat ID.
func (mt *MessageThread) ChatID() string {
	return mt.chatID
}

// SetOnSend sets the callback when a message is sent.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// Update refreshes the message view. msgs are newest first.
func (mt *MessageThread) Update(msgs []beeper.Message, hasOlder bool) {
	var selectedID string
	if m := mt.SelectedMessage(); m != nil {
		selectedID = m.ID
	}
	mt.msgs = msgs
	mt.hasOlder = hasOlder
	mt.selected = -1
	for i := range msgs {
		if msgs[i].ID == selectedID {
			mt.selected = i
		}
	}
	mt.render()
	if mt.selected < 0 {
		mt.messages.ScrollToEnd()
	}
}

func (mt *MessageThread) render() {
	mt.messages.Clear()
	_, _ = fmt.Fprint(mt.messages, mt.text())
	if mt.selected >= 0 {
		mt.messages.Highlight(regionID(mt.selected))
		mt.messages.ScrollToHighlight()
	} else {
		mt.messages.Highlight()
	}
}

func (mt *MessageThread) text() string {
	var b strings.Builder
	now := mt.now()
	selfColor := colorName(mt.theme.SelfColor)
	peerColor := colorName(mt.theme.PeerColor)
	dim := colorName(mt.theme.MutedColor)

	if mt.hasOlder {
		fmt.Fprintf(&b, "[%s]  o: load older messages[-]\n\n", dim)
	}
	for i := len(mt.msgs) - 1; i >= 0; i-- {
		m := &mt.msgs[i]
		color := peerColor
		if m.IsSender != nil && *m.IsSender {
			color = selfColor
		}

		fmt.Fprintf(&b, `["%s"]`, regionID(i))
		fmt.Fprintf(&b, "[%s::b]%s[-:-:-] [%s]%s[-]",
			color, escapeLine(present.Sender(m)),
			dim, present.MessageTime(m, now))
		if m.IsEdited != nil && *m.IsEdited {
			fmt.Fprintf(&b, " [%s](edited)[-]", dim)
		}
		b.WriteString("\n")
		if quoted := mt.quote(m); quoted != "" {
			fmt.Fprintf(&b, "[%s]  ↪ %s[-]\n", dim, escapeLine(quoted))
		}
		b.WriteString(escapeText(present.Body(m)))
		if r := present.Reactions(m.Reactions); r != "" {
			fmt.Fprintf(&b, "\n  %s", escapeLine(r))
		}
		b.WriteString(`[""]`)
		b.WriteString("\n\n")
	}
	return b.String()
}

// quote summarizes the message m replies to, if it is loaded.
func (mt *MessageThread) quote(m *beeper.Message) string {
	if m.ReplyToID == nil {
		return ""
	}
	for i := range mt.msgs {
		if mt.msgs[i].ID == *m.ReplyToID {
			orig := &mt.msgs[i]
			return present.Sender(orig) + ": " + truncate(strings.ReplaceAll(present.Body(orig), "\n", " "), 60)
		}
	}
	return "earlier message"
}

// Select moves the selection by delta; positive is towards newer messages.
// With nothing selected the newest message is picked.
func (mt *MessageThread) Select(delta int) {
	if len(mt.msgs) == 0 {
		return
	}
	if mt.selected < 0 {
		mt.selected = 0
	} else {
		mt.selected = min(max(mt.selected-delta, 0), len(mt.msgs)-1)
	}
	mt.render()
}

// ClearSelection drops the message selection.
func (mt *MessageThread) ClearSelection() {
	mt.selected = -1
	mt.render()
	mt.messages.ScrollToEnd()
}

// SelectedMessage returns the highlighted message, or nil.
func (mt *MessageThread) SelectedMessage() *beeper.Message {
	if mt.selected < 0 || mt.selected >= len(mt.msgs) {
		return nil
	}
	m := mt.msgs[mt.selected]
	return &m
}

// MessageByIndex returns the Nth newest message (1-based).
func (mt *MessageThread) MessageByIndex(n int) *beeper.Message {
	if n < 1 || n > len(mt.msgs) {
		return nil
	}
	m := mt.msgs[n-1]
	return &m
}

// SetReplyTo shows which message the composer replies to; "" clears it.
func (mt *MessageThread) SetReplyTo(messageID string) {
	mt.replyTo = messageID
	mt.renderComposerTitle()
}

func (mt *MessageThread) renderComposerTitle() {
	if mt.replyTo == "" {
		mt.composer.SetTitle(" Compose (i to focus) ")
		return
	}
	label := "message"
	for i := range mt.msgs {
		if mt.msgs[i].ID == mt.replyTo {
			label = present.Sender(&mt.msgs[i])
		}
	}
	mt.composer.SetTitle(fmt.Sprintf(" Reply to %s (esc to cancel) ", tview.Escape(label)))
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}

func regionID(i int) string {
	return "m" + strconv.Itoa(i)
}
