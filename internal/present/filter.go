package present

import (
	"github.com/sahilm/fuzzy"

	"github.com/matheus3301/bpp/beeper"
)

type chatSource []beeper.Chat

func (s chatSource) String(i int) string {
	c := &s[i]
	return c.DisplayName() + " " + c.Network
}

func (s chatSource) Len() int { return len(s) }

// FilterChats returns the chats whose display name or network fuzzily match
// query, best match first. An empty query returns chats unchanged.
func FilterChats(chats []beeper.Chat, query string) []beeper.Chat {
	if query == "" {
		return chats
	}
	matches := fuzzy.FindFrom(query, chatSource(chats))
	out := make([]beeper.Chat, 0, len(matches))
	for _, m := range matches {
		out = append(out, chats[m.Index])
	}
	return out
}

// FindChat returns the best fuzzy match for query, if any.
func FindChat(chats []beeper.Chat, query string) (beeper.Chat, bool) {
	matches := FilterChats(chats, query)
	if query == "" || len(matches) == 0 {
		return beeper.Chat{}, false
	}
	return matches[0], true
}
