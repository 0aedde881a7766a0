// Package present turns API values into short human-readable strings for the
// terminal front ends.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/kenshaw/emoji"

	"github.com/matheus3301/bpp/beeper"
)

// Sender returns who wrote a message, "You" for the current user.
func Sender(m *beeper.Message) string {
	switch {
	case m.IsSender != nil && *m.IsSender:
		return "You"
	case m.SenderName != nil && *m.SenderName != "":
		return *m.SenderName
	default:
		return m.SenderID
	}
}

// Body returns the message text, or an attachment summary when there is none.
func Body(m *beeper.Message) string {
	var parts []string
	if m.Text != nil && *m.Text != "" {
		parts = append(parts, *m.Text)
	}
	for i := range m.Attachments {
		parts = append(parts, Attachment(&m.Attachments[i]))
	}
	return strings.Join(parts, " ")
}

// Preview is the one-line summary of a chat's latest message.
func Preview(c *beeper.Chat) string {
	if c.Preview == nil {
		return ""
	}
	body := strings.ReplaceAll(Body(c.Preview), "\n", " ")
	if c.IsGroup() && c.Preview.IsSender == nil {
		return Sender(c.Preview) + ": " + body
	}
	return body
}

// Attachment summarizes an attachment, e.g. "[img cat.png 2.0 KiB]".
func Attachment(a *beeper.Attachment) string {
	kind := a.Type
	switch {
	case a.IsVoiceNote != nil && *a.IsVoiceNote:
		kind = "voice"
	case a.IsSticker != nil && *a.IsSticker:
		kind = "sticker"
	case a.IsGif != nil && *a.IsGif:
		kind = "gif"
	}
	parts := []string{kind}
	if a.FileName != nil && *a.FileName != "" {
		parts = append(parts, *a.FileName)
	}
	if a.Duration != nil {
		d := time.Duration(*a.Duration * float64(time.Second)).Round(time.Second)
		parts = append(parts, fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60))
	}
	if a.FileSize != nil {
		parts = append(parts, Size(*a.FileSize))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Size formats a byte count with binary units.
func Size(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Reaction renders one reaction key. Shortcodes such as "heart" or ":+1:"
// become the emoji itself; keys that are already emoji, and custom reactions
// with no known shortcode, are returned as they are.
func Reaction(r *beeper.Reaction) string {
	if r.Emoji != nil && *r.Emoji {
		return r.ReactionKey
	}
	if e := emoji.FromAlias(strings.Trim(r.ReactionKey, ":")); e != nil {
		return e.Emoji
	}
	return r.ReactionKey
}

// Reactions groups reactions by rendered key in first-seen order, e.g.
// "👍 2  ❤️".
func Reactions(rs []beeper.Reaction) string {
	var order []string
	counts := make(map[string]int)
	for i := range rs {
		key := Reaction(&rs[i])
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}
	parts := make([]string, 0, len(order))
	for _, key := range order {
		if counts[key] > 1 {
			parts = append(parts, fmt.Sprintf("%s %d", key, counts[key]))
		} else {
			parts = append(parts, key)
		}
	}
	return strings.Join(parts, "  ")
}

// Timestamp shows the clock time for today, month/day for this year and the
// full date otherwise. The zero time renders as "".
func Timestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())
	switch {
	case t.Year() == now.Year() && t.YearDay() == now.YearDay():
		return t.Format("15:04")
	case t.Year() == now.Year():
		return t.Format("01/02")
	default:
		return t.Format("2006-01-02")
	}
}

// ChatTime is Timestamp applied to a chat's last activity.
func ChatTime(c *beeper.Chat, now time.Time) string {
	t, _ := c.LastActivityTime()
	return Timestamp(t, now)
}

// MessageTime is Timestamp applied to a message.
func MessageTime(m *beeper.Message, now time.Time) string {
	t, _ := m.Time()
	return Timestamp(t, now)
}

// Flags lists the state markers of a chat, e.g. "pinned,muted".
func Flags(c *beeper.Chat) string {
	var flags []string
	if c.IsPinned {
		flags = append(flags, "pinned")
	}
	if c.IsMuted {
		flags = append(flags, "muted")
	}
	if c.IsArchived {
		flags = append(flags, "archived")
	}
	return strings.Join(flags, ",")
}
