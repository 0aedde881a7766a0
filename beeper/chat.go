package beeper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// DisplayName returns the name to show for a chat. Group chats (and any type
// other than single) use the title. Direct chats use the first participant
// that is not the current user: full name, then username, then the title.
func (c *Chat) DisplayName() string {
	if c.Type != ChatTypeSingle {
		return c.Title
	}
	for _, p := range c.Participants.Items {
		if p.IsSelf != nil && *p.IsSelf {
			continue
		}
		if p.FullName != nil {
			return *p.FullName
		}
		if p.Username != nil {
			return *p.Username
		}
		break
	}
	return c.Title
}

// IsGroup reports whether the chat is a group chat.
func (c *Chat) IsGroup() bool {
	return c.Type == ChatTypeGroup
}

// LastActivityTime parses LastActivity. The second result is false when the
// field is absent or not an ISO-8601 timestamp.
func (c *Chat) LastActivityTime() (time.Time, bool) {
	if c.LastActivity == nil {
		return time.Time{}, false
	}
	return parseTimestamp(*c.LastActivity)
}

// UnmarshalJSON decodes a chat, accepting lastReadMessageSortKey as either a
// JSON number or a string of digits.
func (c *Chat) UnmarshalJSON(data []byte) error {
	type plain Chat
	aux := struct {
		*plain
		LastReadMessageSortKey json.RawMessage `json:"lastReadMessageSortKey"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	key, err := decodeSortKey(aux.LastReadMessageSortKey)
	if err != nil {
		return fmt.Errorf("lastReadMessageSortKey: %w", err)
	}
	c.LastReadMessageSortKey = key
	return nil
}

// decodeSortKey tries a number, then a numeric string, then null.
func decodeSortKey(raw json.RawMessage) (*uint64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if v, err := strconv.ParseUint(string(raw), 10, 64); err == nil {
		return &v, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return nil, fmt.Errorf("expected unsigned integer or numeric string, got %s", raw)
}

// Time parses the message timestamp.
func (m *Message) Time() (time.Time, bool) {
	return parseTimestamp(m.Timestamp)
}

func parseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
